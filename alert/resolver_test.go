package alert

import "testing"

func TestResolveBasicTypes(t *testing.T) {
	r := NewResolver(nil, false)
	cases := []struct {
		in   Alertable
		want string
	}{
		{nil, ""},
		{"hi", "hi"},
		{42, "42"},
		{int64(7), "7"},
		{3.0, "3"},
		{3.5, "3.5"},
		{func() Alertable { return "lazy" }, "lazy"},
	}
	for _, c := range cases {
		if got := r.Resolve(c.in); got != c.want {
			t.Errorf("Resolve(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveNestedUtterance(t *testing.T) {
	r := NewResolver(nil, false)
	inner := New("inner text")
	if got := r.Resolve(inner); got != "inner text" {
		t.Errorf("Resolve(*Utterance) = %q, want %q", got, "inner text")
	}
}

func TestResolveUnsupportedTypeReturnsEmpty(t *testing.T) {
	r := NewResolver(nil, false)
	if got := r.Resolve(struct{}{}); got != "" {
		t.Errorf("Resolve(unsupported) = %q, want empty string", got)
	}
}

func TestCollectResponsesJoinsInOrder(t *testing.T) {
	rc := NewResponseCollector()
	name, object, context, hint := "Name", "Object", "Context", "Hint"
	p := ResponsePacket{Name: &name, Object: &object, Context: &context, Hint: &hint}

	got := rc.CollectResponses(p, true)
	want := "Name, Object, Context, Hint"
	if got != want {
		t.Errorf("CollectResponses = %q, want %q", got, want)
	}
}

func TestCollectResponsesRespectsDisabledFields(t *testing.T) {
	rc := NewResponseCollector()
	rc.ObjectEnabled.Set(false)
	name, object := "Name", "Object"
	p := ResponsePacket{Name: &name, Object: &object}

	got := rc.CollectResponses(p, false)
	if got != "Name" {
		t.Errorf("CollectResponses = %q, want %q (object field disabled)", got, "Name")
	}
}

func TestCollectResponsesIgnorePropertiesOverridesDisabled(t *testing.T) {
	rc := NewResponseCollector()
	rc.ObjectEnabled.Set(false)
	name, object := "Name", "Object"
	p := ResponsePacket{Name: &name, Object: &object}

	got := rc.CollectResponses(p, true)
	if got != "Name, Object" {
		t.Errorf("CollectResponses(ignoreProperties=true) = %q, want %q", got, "Name, Object")
	}
}

func TestResolveResponsePacketRespectsCollectorFlag(t *testing.T) {
	rc := NewResponseCollector()
	rc.HintEnabled.Set(false)
	hint := "a hint"
	packet := ResponsePacket{Hint: &hint}

	respecting := NewResolver(rc, true)
	if got := respecting.Resolve(packet); got != "" {
		t.Errorf("respecting collector: Resolve = %q, want empty (hint disabled)", got)
	}

	ignoring := NewResolver(rc, false)
	if got := ignoring.Resolve(packet); got != "a hint" {
		t.Errorf("ignoring collector: Resolve = %q, want %q", got, "a hint")
	}
}

func TestResolveEmptyStringSuppressesAnnounce(t *testing.T) {
	r := NewResolver(nil, false)
	if got := r.Resolve(""); got != "" {
		t.Errorf("Resolve(empty string) = %q, want empty", got)
	}
}
