package convert

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

// Coerce converts raw to the dynamic type of sample, so values decoded
// from templates as one Go type (YAML integers, for instance) can be
// assigned to a property of a compatible kind. A nil sample passes raw
// through unchanged; a sample of an unhandled type requires raw to
// match it exactly.
func Coerce(sample, raw any) (any, error) {
	switch sample.(type) {
	case nil:
		return raw, nil
	case float64:
		return cast.ToFloat64E(raw)
	case float32:
		return cast.ToFloat32E(raw)
	case int:
		return cast.ToIntE(raw)
	case int64:
		return cast.ToInt64E(raw)
	case string:
		return cast.ToStringE(raw)
	case bool:
		return cast.ToBoolE(raw)
	case time.Duration:
		return cast.ToDurationE(raw)
	default:
		if raw == nil || reflect.TypeOf(sample) == reflect.TypeOf(raw) {
			return raw, nil
		}
		return nil, fmt.Errorf("cannot coerce %T to %T", raw, sample)
	}
}
