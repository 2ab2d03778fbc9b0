//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-sss/internal/backend"
	"github.com/smallyu/go-sss/internal/backend/software"
	"github.com/smallyu/go-sss/internal/codec"
	"github.com/smallyu/go-sss/internal/points"
	"github.com/smallyu/go-sss/internal/workflow"
	"github.com/smallyu/go-sss/pkg/sss"
)

var (
	adapter   *backend.Adapter
	generator = points.NewGenerator(points.DefaultSource())

	// Active sessions, keyed by session ID
	sessions = make(map[string]*workflow.Session)
)

func main() {
	c := make(chan struct{})

	fmt.Println("Go SSS WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("GoSSS", map[string]interface{}{
		"init":         js.FuncOf(Init),
		"split":        js.FuncOf(Split),
		"combine":      js.FuncOf(Combine),
		"randomSecret": js.FuncOf(RandomSecret),
		"release":      js.FuncOf(Release),
	})

	<-c
}

// Init initializes the backend. It must be called before split or combine.
// Arguments:
// 0 (optional): backend version ("legacy", "named", "current")
// Returns:
// JSON string {"shapes": [...]} or "error: ..."
func Init(this js.Value, args []js.Value) interface{} {
	version := software.VersionCurrent
	if len(args) > 0 {
		v, err := software.ParseVersion(args[0].String())
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		version = v
	}

	a := backend.NewAdapter(software.New(version, software.WithRand(generator.Source())))
	if err := a.Initialize(); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	adapter = a
	return marshal(map[string]interface{}{"shapes": a.Shapes()})
}

// Split validates the input and splits the secret in a new session.
// Arguments:
// 0: JSON string {"secret", "encoding", "curve", "total", "threshold"}
// Returns:
// JSON string {"sessionID", "shares", "bundle"} or "error: ..."
func Split(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonInput)"
	}
	if adapter == nil {
		return fmt.Sprintf("error: %v", sss.ErrBackendNotInitialized)
	}

	type SplitInput struct {
		Secret    string `json:"secret"`
		Encoding  string `json:"encoding"`
		Curve     string `json:"curve"`
		Total     int    `json:"total"`
		Threshold int    `json:"threshold"`
	}

	var input SplitInput
	if err := json.Unmarshal([]byte(args[0].String()), &input); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}
	enc, err := codec.ParseEncoding(input.Encoding)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	curve, err := sss.ParseCurve(input.Curve)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	session := workflow.New(adapter, generator, workflow.WithRand(generator.Source()))
	session.Configure(workflow.Input{
		Secret:   input.Secret,
		Encoding: enc,
		Curve:    curve,
		Params:   sss.Params{Total: input.Total, Threshold: input.Threshold},
	})
	if err := session.Split(); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	bundle, err := session.Export()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	sessions[session.ID()] = session

	display := make([]string, len(bundle.Shares))
	for i, share := range bundle.Shares {
		display[i] = share.String()
	}
	return marshal(map[string]interface{}{
		"sessionID": session.ID(),
		"shares":    display,
		"bundle":    bundle,
	})
}

// Combine recovers the secret from selected shares of a session.
// Arguments:
// 0: Session ID (string)
// 1: JSON array of 1-based share indices
// Returns:
// JSON string {"hex", "text", "matches"} or "error: ..."
func Combine(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (sessionID, jsonIndices)"
	}
	session, ok := sessions[args[0].String()]
	if !ok {
		return "error: session not found"
	}

	var indices []int
	if err := json.Unmarshal([]byte(args[1].String()), &indices); err != nil {
		return fmt.Sprintf("error: invalid indices: %v", err)
	}
	if err := session.Select(indices...); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	r, err := session.Combine()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return marshal(map[string]interface{}{
		"hex":      r.Hex,
		"text":     r.Text,
		"matches":  r.Matches,
		"verified": r.Verified,
	})
}

// RandomSecret returns a random curve-valid secret as hex.
// Arguments:
// 0: curve name
func RandomSecret(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (curve)"
	}
	curve, err := sss.ParseCurve(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	secret, err := generator.RandomSecret(curve)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return codec.BytesToHex(secret)
}

// Release drops a session.
// Arguments:
// 0: Session ID (string)
func Release(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (sessionID)"
	}
	delete(sessions, args[0].String())
	return nil
}

func marshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: marshal failed: %v", err)
	}
	return string(b)
}
