package common

import (
	"github.com/crmarques/jbossctl/faults"
)

func ValidationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func NotFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}
