package mdtoken_test

import (
	"testing"

	"github.com/yaklabco/mdtree/pkg/mdtoken"
)

func TestAppendChild(t *testing.T) {
	t.Parallel()

	parent := &mdtoken.Token{Type: "paragraph"}
	child := &mdtoken.Token{Type: "data"}

	mdtoken.AppendChild(parent, child)

	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Fatal("child not appended")
	}
	if child.Parent != parent {
		t.Error("parent link not set")
	}
}

func TestSetChildrenRelinks(t *testing.T) {
	t.Parallel()

	parent := &mdtoken.Token{Type: "htmlFlow"}
	a := &mdtoken.Token{Type: "data"}
	b := &mdtoken.Token{Type: "lineEnding"}

	mdtoken.SetChildren(parent, []*mdtoken.Token{a, b})

	if a.Parent != parent || b.Parent != parent {
		t.Error("replacement children must point back at the parent")
	}
}

func TestFreezePanicsOnWrite(t *testing.T) {
	t.Parallel()

	tok := &mdtoken.Token{Type: "paragraph"}
	mdtoken.Freeze(tok)

	if !tok.Frozen() {
		t.Fatal("token should report frozen")
	}

	assertPanics(t, "AppendChild", func() {
		mdtoken.AppendChild(tok, &mdtoken.Token{Type: "data"})
	})
	assertPanics(t, "SetChildren", func() {
		mdtoken.SetChildren(tok, nil)
	})
	assertPanics(t, "SetText", func() {
		mdtoken.SetText(tok, "changed")
	})
}

func TestFreezeTree(t *testing.T) {
	t.Parallel()

	root := &mdtoken.Token{Type: "paragraph"}
	child := &mdtoken.Token{Type: "data"}
	mdtoken.AppendChild(root, child)

	mdtoken.FreezeTree(root)

	if !root.Frozen() || !child.Frozen() {
		t.Error("every token in the tree should be frozen")
	}
}

func TestCloneForestIsolation(t *testing.T) {
	t.Parallel()

	root := &mdtoken.Token{Type: "paragraph", Text: "hello", StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 6}
	child := &mdtoken.Token{Type: "data", Text: "hello", HTMLReparse: true}
	mdtoken.AppendChild(root, child)
	flat := []*mdtoken.Token{root, child}

	clonedRoots, clonedFlat := mdtoken.CloneForest([]*mdtoken.Token{root}, flat)

	if clonedRoots[0] == root {
		t.Fatal("clone must be a distinct object")
	}
	if clonedRoots[0].Children[0].Parent != clonedRoots[0] {
		t.Error("parent links must be re-established on clones")
	}
	if !clonedRoots[0].Children[0].HTMLReparse {
		t.Error("marker flags must survive cloning")
	}
	if clonedFlat[0] != clonedRoots[0] || clonedFlat[1] != clonedRoots[0].Children[0] {
		t.Error("flat list must reference the cloned tokens in emission order")
	}

	// Mutating the clone leaves the original untouched, and vice versa.
	mdtoken.SetText(clonedRoots[0], "changed")
	if root.Text != "hello" {
		t.Error("mutating a clone corrupted the original")
	}

	second, _ := mdtoken.CloneForest([]*mdtoken.Token{root}, flat)
	mdtoken.AppendChild(second[0], &mdtoken.Token{Type: "data"})
	if len(clonedRoots[0].Children) != 1 {
		t.Error("independently cloned copies must not alias")
	}
}

func TestCloneForestPreservesFrozen(t *testing.T) {
	t.Parallel()

	root := &mdtoken.Token{Type: "paragraph"}
	mdtoken.FreezeTree(root)

	cloned, _ := mdtoken.CloneForest([]*mdtoken.Token{root}, []*mdtoken.Token{root})
	if !cloned[0].Frozen() {
		t.Error("clone of a frozen tree must be frozen")
	}
}

func TestCloneForestDetectsCycle(t *testing.T) {
	t.Parallel()

	a := &mdtoken.Token{Type: "paragraph"}
	b := &mdtoken.Token{Type: "data"}
	a.Children = []*mdtoken.Token{b}
	b.Children = []*mdtoken.Token{a} // deliberately corrupt

	assertPanics(t, "cycle", func() {
		mdtoken.CloneForest([]*mdtoken.Token{a}, nil)
	})
}

func TestByType(t *testing.T) {
	t.Parallel()

	root := &mdtoken.Token{Type: "paragraph"}
	mdtoken.AppendChild(root, &mdtoken.Token{Type: "data"})
	mdtoken.AppendChild(root, &mdtoken.Token{Type: "lineEnding"})
	mdtoken.AppendChild(root, &mdtoken.Token{Type: "data"})

	data := mdtoken.ByType([]*mdtoken.Token{root}, "data")
	if len(data) != 2 {
		t.Errorf("expected 2 data tokens, got %d", len(data))
	}
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}
