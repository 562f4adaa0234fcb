package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yourname/sleepscope/internal"
)

var validate = validator.New()

// MaxDisturbances bounds the marker count a single record may ask for.
const MaxDisturbances = 1440

var ErrInvalidInput = errors.New("service: invalid sleep record")

type SleepRecordRequest struct {
	Bedtime      string `json:"bedtime" form:"bedtime" validate:"required"`
	WakeupTime   string `json:"wakeup_time" form:"wakeup_time" validate:"required"`
	Disturbances int    `json:"disturbances" form:"disturbances" validate:"gte=0,lte=1440"`
}

func NewSleepRecordRequest(rec internal.SleepRecord) *SleepRecordRequest {
	return &SleepRecordRequest{
		Bedtime:      rec.Bedtime,
		WakeupTime:   rec.WakeupTime,
		Disturbances: rec.Disturbances,
	}
}

// ValidateSleepRecordRequest wraps validator failures in ErrInvalidInput.
// Clock fields only need to be non-empty; their format is not checked here.
func ValidateSleepRecordRequest(body *SleepRecordRequest) error {
	if err := validate.Struct(body); err != nil {
		return errors.Join(ErrInvalidInput, err)
	}
	return nil
}

func (r *SleepRecordRequest) Record() internal.SleepRecord {
	return internal.SleepRecord{
		Bedtime:      r.Bedtime,
		WakeupTime:   r.WakeupTime,
		Disturbances: r.Disturbances,
	}
}

// ParseDisturbances reads the raw form value. Anything that is not an integer
// comes back as -1 so the record fails validation instead of defaulting to 0.
func ParseDisturbances(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return -1
	}
	return n
}
