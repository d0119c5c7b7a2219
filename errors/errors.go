package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
	ErrNameTaken        = fmt.Errorf("name already taken")
	ErrEmptyName        = fmt.Errorf("name is empty")
	ErrHandleTaken      = fmt.Errorf("handle already registered")
	ErrHandleClosed     = fmt.Errorf("handle closed")
	ErrPoolFull         = fmt.Errorf("worker pool is full")
	ErrLoginRejected    = fmt.Errorf("login rejected")
	ErrInvalidPort      = fmt.Errorf("invalid port")
	ErrTooManyArguments = fmt.Errorf("too many arguments")
	ErrUnknownLocale    = fmt.Errorf("unknown locale")
	ErrHubClosed        = fmt.Errorf("hub is shut down")
)
