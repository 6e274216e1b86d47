//go:build js && wasm

package web

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/hupe1980/opfsgo"
)

// await blocks until the promise settles or ctx is done. The host keeps
// running a dropped operation; cancellation only abandons the wait.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	done := make(chan struct{})
	var result js.Value
	var rejected js.Value
	var failed bool

	onFulfilled := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			result = args[0]
		}
		close(done)
		return nil
	})
	defer onFulfilled.Release()

	onRejected := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			rejected = args[0]
		}
		failed = true
		close(done)
		return nil
	})
	defer onRejected.Release()

	promise.Call("then", onFulfilled, onRejected)

	select {
	case <-ctx.Done():
		return js.Value{}, ctx.Err()
	case <-done:
	}

	if failed {
		return js.Value{}, translateException(rejected)
	}
	return result, nil
}

// translateException maps a DOMException onto the contract taxonomy.
func translateException(v js.Value) error {
	name := ""
	message := ""
	if v.Type() == js.TypeObject {
		if n := v.Get("name"); n.Type() == js.TypeString {
			name = n.String()
		}
		if m := v.Get("message"); m.Type() == js.TypeString {
			message = m.String()
		}
	}

	switch name {
	case "NotFoundError":
		return fmt.Errorf("%w: %s", opfsgo.ErrNotFound, message)
	case "TypeMismatchError":
		return fmt.Errorf("%w: %s", opfsgo.ErrWrongKind, message)
	case "InvalidModificationError":
		return fmt.Errorf("%w: %s", opfsgo.ErrNotEmpty, message)
	case "":
		return errors.New(js.Error{Value: v}.Error())
	default:
		return fmt.Errorf("%s: %s", name, message)
	}
}

func toUint8Array(p []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(p))
	js.CopyBytesToJS(arr, p)
	return arr
}

func fromArrayBuffer(buf js.Value) []byte {
	arr := js.Global().Get("Uint8Array").New(buf)
	out := make([]byte, arr.Length())
	js.CopyBytesToGo(out, arr)
	return out
}
