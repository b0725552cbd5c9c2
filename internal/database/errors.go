package database

import (
	"fmt"
)

const (
	EntityAlarm        = "alarm"
	EntityNotification = "notification"
	EntitySetting      = "setting"
)

type OpError struct {
	Op       string
	Resource string
	ID       string
	Err      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapErr(resource, op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: resource, ID: id, Err: err}
}

func wrapAlarmErr(op, id string, err error) error {
	return wrapErr(EntityAlarm, op, id, err)
}

func wrapNotificationErr(op, id string, err error) error {
	return wrapErr(EntityNotification, op, id, err)
}
