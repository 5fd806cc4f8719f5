package refshim_test

import (
	"testing"

	"github.com/yaklabco/mdtree/pkg/mdtoken"
	"github.com/yaklabco/mdtree/pkg/refshim"
	"github.com/yaklabco/mdtree/pkg/tokenize"
)

// run tokenizes src with the shim installed and returns the shim.
func run(src string, original func(*tokenize.Tokenizer)) *refshim.Shim {
	shim := refshim.New(original)
	tokenize.Events(src, tokenize.Options{OnLabelMiss: shim.OnLabelMiss})
	return shim
}

// outers returns the enter events of outer classification tokens.
func outers(shim *refshim.Shim) []tokenize.Event {
	var out []tokenize.Event
	for _, ev := range shim.Synthetic() {
		if ev.Kind != tokenize.Enter {
			continue
		}
		switch ev.Type {
		case mdtoken.TypeUndefinedReferenceShortcut,
			mdtoken.TypeUndefinedReferenceCollapsed,
			mdtoken.TypeUndefinedReferenceFull:
			out = append(out, ev)
		}
	}
	return out
}

func TestShortcutReference(t *testing.T) {
	t.Parallel()

	src := "[foo]\n"
	shim := run(src, nil)

	got := outers(shim)
	if len(got) != 1 {
		t.Fatalf("expected 1 synthetic token, got %d", len(got))
	}
	if got[0].Type != mdtoken.TypeUndefinedReferenceShortcut {
		t.Errorf("type = %s, want shortcut", got[0].Type)
	}
	if span := src[got[0].StartOffset:got[0].EndOffset]; span != "[foo]" {
		t.Errorf("outer spans %q, want [foo]", span)
	}

	// The inner generic token spans the label text.
	var inner *tokenize.Event
	for i, ev := range shim.Synthetic() {
		if ev.Kind == tokenize.Enter && ev.Type == mdtoken.TypeUndefinedReference {
			inner = &shim.Synthetic()[i]
		}
	}
	if inner == nil {
		t.Fatal("missing inner undefinedReference event")
	}
	if span := src[inner.StartOffset:inner.EndOffset]; span != "foo" {
		t.Errorf("inner spans %q, want foo", span)
	}
}

func TestCollapsedReference(t *testing.T) {
	t.Parallel()

	src := "[foo][]\n"
	shim := run(src, nil)

	got := outers(shim)
	if len(got) != 1 {
		t.Fatalf("expected 1 synthetic token, got %d", len(got))
	}
	if got[0].Type != mdtoken.TypeUndefinedReferenceCollapsed {
		t.Errorf("type = %s, want collapsed", got[0].Type)
	}
	if span := src[got[0].StartOffset:got[0].EndOffset]; span != "[foo][]" {
		t.Errorf("outer spans %q, want [foo][]", span)
	}
}

func TestFullReference(t *testing.T) {
	t.Parallel()

	src := "[foo][bar]\n"
	shim := run(src, nil)

	got := outers(shim)
	if len(got) != 1 {
		t.Fatalf("expected 1 synthetic token, got %d", len(got))
	}
	if got[0].Type != mdtoken.TypeUndefinedReferenceFull {
		t.Errorf("type = %s, want full", got[0].Type)
	}
	if span := src[got[0].StartOffset:got[0].EndOffset]; span != "[foo][bar]" {
		t.Errorf("outer spans %q, want [foo][bar]", span)
	}
}

func TestInlineLinkProducesNothing(t *testing.T) {
	t.Parallel()

	shim := run("[foo](http://x)\n", nil)
	if len(shim.Synthetic()) != 0 {
		t.Errorf("inline link must not synthesize tokens, got %d events", len(shim.Synthetic()))
	}
}

func TestResolvedReferenceProducesNothing(t *testing.T) {
	t.Parallel()

	shim := run("[foo]\n\n[foo]: /url\n", nil)
	if len(shim.Synthetic()) != 0 {
		t.Error("resolved reference must not synthesize tokens")
	}
}

func TestBareEmptyBracketsProduceNothing(t *testing.T) {
	t.Parallel()

	shim := run("[]\n", nil)
	if len(shim.Synthetic()) != 0 {
		t.Error("bare [] is not a reference attempt")
	}
}

func TestImageShortcut(t *testing.T) {
	t.Parallel()

	src := "![alt]\n"
	shim := run(src, nil)

	got := outers(shim)
	if len(got) != 1 {
		t.Fatalf("expected 1 synthetic token, got %d", len(got))
	}
	if span := src[got[0].StartOffset:got[0].EndOffset]; span != "![alt]" {
		t.Errorf("outer spans %q, want ![alt]", span)
	}
}

func TestMultipleIndependentReferences(t *testing.T) {
	t.Parallel()

	src := "[one] and [two]\n"
	shim := run(src, nil)

	got := outers(shim)
	if len(got) != 2 {
		t.Fatalf("expected 2 shortcut tokens, got %d", len(got))
	}
	for _, ev := range got {
		if ev.Type != mdtoken.TypeUndefinedReferenceShortcut {
			t.Errorf("type = %s, want shortcut", ev.Type)
		}
	}
}

func TestOriginalContinuationAlwaysRuns(t *testing.T) {
	t.Parallel()

	var calls int
	run("[foo][bar] and [baz](u) and [qux]\n", func(*tokenize.Tokenizer) { calls++ })

	// [foo] part, [bar] part, [qux]; the inline link never fails.
	if calls != 3 {
		t.Errorf("original continuation ran %d times, want 3", calls)
	}
}
