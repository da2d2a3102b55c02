package model

type TaskState int8

const (
	TaskStateIdle = TaskState(iota)
	TaskStatePending
	TaskStateSettled
)

func (s TaskState) String() string {
	switch s {
	case TaskStatePending:
		return "pending"
	case TaskStateSettled:
		return "settled"
	default:
		return "idle"
	}
}
