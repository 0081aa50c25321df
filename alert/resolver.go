package alert

import (
	"strconv"
	"strings"

	"github.com/egtechgeek/annunciator/internal/debugassert"
	"github.com/egtechgeek/annunciator/reactive"
)

// ResponsePacket is the structured alertable shape resolved by a
// ResponseCollector. It mirrors the pattern already used in main.go of
// composing several optional named string fields into one announcement
// (e.g. the Emergency/StationCronJob structs).
type ResponsePacket struct {
	Name    *string
	Object  *string
	Context *string
	Hint    *string
}

// ResponseCollector turns a ResponsePacket into one string, gated by four
// boolean observables (collectResponses(packetOptions) -> string). The
// pattern table here is intentionally simple — join the enabled, present
// fields in name/object/context/hint order — treating the real pattern
// table as an external collaborator and specifying only its contract.
type ResponseCollector struct {
	NameEnabled    *reactive.Cell[bool]
	ObjectEnabled  *reactive.Cell[bool]
	ContextEnabled *reactive.Cell[bool]
	HintEnabled    *reactive.Cell[bool]
}

// NewResponseCollector creates a collector with all four fields enabled.
func NewResponseCollector() *ResponseCollector {
	return &ResponseCollector{
		NameEnabled:    reactive.NewCell(true),
		ObjectEnabled:  reactive.NewCell(true),
		ContextEnabled: reactive.NewCell(true),
		HintEnabled:    reactive.NewCell(true),
	}
}

// CollectResponses combines p's fields into a single string. When
// ignoreProperties is true, every present field is included regardless of
// the collector's enable cells — this is how Resolver implements
// RespectResponseCollectorProperties=false.
func (rc *ResponseCollector) CollectResponses(p ResponsePacket, ignoreProperties bool) string {
	enabled := func(cell *reactive.Cell[bool]) bool {
		if ignoreProperties || rc == nil || cell == nil {
			return true
		}
		return cell.Value()
	}

	var parts []string
	add := func(v *string, on bool) {
		if v != nil && *v != "" && on {
			parts = append(parts, *v)
		}
	}
	var nameOn, objectOn, contextOn, hintOn *reactive.Cell[bool]
	if rc != nil {
		nameOn, objectOn, contextOn, hintOn = rc.NameEnabled, rc.ObjectEnabled, rc.ContextEnabled, rc.HintEnabled
	}
	add(p.Name, enabled(nameOn))
	add(p.Object, enabled(objectOn))
	add(p.Context, enabled(contextOn))
	add(p.Hint, enabled(hintOn))

	return strings.Join(parts, ", ")
}

// Resolver turns any Alertable into resolved text. The zero value resolves
// response packets with all fields enabled
// (RespectResponseCollectorProperties=false); set Collector and
// RespectResponseCollectorProperties to gate on collector state instead.
type Resolver struct {
	Collector                         *ResponseCollector
	RespectResponseCollectorProperties bool
}

// NewResolver creates a Resolver. respectCollector mirrors the announcer
// default (false for aria-live, true for speech-synth).
func NewResolver(collector *ResponseCollector, respectCollector bool) *Resolver {
	return &Resolver{Collector: collector, RespectResponseCollectorProperties: respectCollector}
}

// Resolve converts a to its final text. The empty string represents
// "nothing to say" and suppresses the announcement.
func (r *Resolver) Resolve(a Alertable) string {
	switch v := a.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatNumber(v)
	case func() Alertable:
		return r.Resolve(v())
	case ResponsePacket:
		ignore := !r.RespectResponseCollectorProperties
		return r.Collector.CollectResponses(v, ignore)
	case *Utterance:
		return r.Resolve(v.Alert)
	default:
		// Malformed alertable: debug assertion in debug builds, silent drop
		// in production.
		debugassert.Fail("alert: unsupported Alertable type %T", a)
		return ""
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
