package runtime

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/wasm-bridge/errors"
)

// MaxArgs bounds the number of arguments a guest may pass in one call.
const MaxArgs = 64

var (
	argDecMode cbor.DecMode
	argEncMode cbor.EncMode
)

func init() {
	var err error
	argDecMode, err = cbor.DecOptions{
		MaxArrayElements: MaxArgs,
		MaxNestedLevels:  4,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IntDec:           cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	argEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// EncodeArgs encodes call arguments as a CBOR array.
func EncodeArgs(args ...any) ([]byte, error) {
	if args == nil {
		args = []any{}
	}
	data, err := argEncMode.Marshal(args)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "encode arguments")
	}
	return data, nil
}

// DecodeArgs decodes a CBOR array of call arguments. Integers decode as
// int64, text as string, booleans as bool.
func DecodeArgs(data []byte) ([]any, error) {
	if len(data) == 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"args"}, "empty argument buffer")
	}
	var args []any
	if err := argDecMode.Unmarshal(data, &args); err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path("args").
			Cause(err).
			Detail("arguments must be a CBOR array").
			Build()
	}
	if args == nil {
		args = []any{}
	}
	return args, nil
}
