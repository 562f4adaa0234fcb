package internal

import "fmt"

// SleepRecord is one submission of the sleep form.
type SleepRecord struct {
	Bedtime      string `json:"bedtime"`
	WakeupTime   string `json:"wakeup_time"`
	Disturbances int    `json:"disturbances"`
}

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}
