package gateway

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// upstreamLayout is the UTC ISO-8601 form Paystack expects for from/to
const upstreamLayout = "2006-01-02T15:04:05.000Z"

// localLayouts are accepted without an offset and read in the gateway's time zone
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate reads an ISO-8601 date or date-time. Values without an offset are taken in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if parsed, perr := time.ParseInLocation(layout, value, loc); perr == nil {
			return parsed, nil
		}
	}
	return time.Time{}, err
}

// FormatUpstream renders t as a UTC ISO string
func FormatUpstream(t time.Time) string {
	return t.UTC().Format(upstreamLayout)
}

var registerOnce sync.Once

// RegisterValidators installs the isodate rule on gin's validator engine
func RegisterValidators() (err error) {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			_, perr := ParseDate(value, time.UTC)
			return perr == nil
		})
	})
	return err
}
