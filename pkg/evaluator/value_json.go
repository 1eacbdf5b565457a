package evaluator

import (
	"encoding/json"
)

// ValueToJSON marshals a Value to JSON bytes. Integers, booleans and quoted
// text map to JSON scalars; procedures and definitions map to small
// descriptive objects; a nil Value is null.
func ValueToJSON(v Value) ([]byte, error) {
	return json.Marshal(valueToRaw(v))
}

type procedureJSON struct {
	Procedure string   `json:"procedure"`
	Params    []string `json:"params"`
}

type definitionJSON struct {
	Defined string `json:"defined"`
}

func valueToRaw(v Value) any {
	switch val := v.(type) {
	case Int:
		return val.Value
	case Bool:
		return val.Value
	case Quoted:
		return val.Text
	case Closure:
		return procedureJSON{Procedure: "lambda", Params: val.Lambda.Params}
	case *Builtin:
		return procedureJSON{Procedure: val.Name, Params: val.Params}
	case Definition:
		return definitionJSON{Defined: val.Name}
	}
	return nil
}

// ValueToJSONString is a convenience that returns a string.
func ValueToJSONString(v Value) string {
	b, err := ValueToJSON(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// TraceEventToJSON marshals a trace event as one NDJSON line (no newline).
func TraceEventToJSON(e TraceEvent) ([]byte, error) {
	return json.Marshal(e)
}
