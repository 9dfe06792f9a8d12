package entity

// NotificationEvent is the type of the operational events sent by the client to
// the notification channel, accessible externally with veil.NotificationChannel().
type NotificationEvent struct {

	// The nofication level
	Level string

	// Timestamp of the event on the format "2006-01-02T15:04:05.000000Z"
	Timestamp string

	// The component type of the sender, e.g. "session", "batch", etc
	Sender string

	// The unique instance ID of the sender
	Instance string

	// The pipeline ID, if applicable
	Pipeline string

	Message string

	// Location and stack info, from where notification was sent.
	// Func is always provided.
	// File and Line are added when notification level is WARN or above.
	// StackTrace is added when notification level is ERROR.
	Func       string
	File       string
	Line       int
	StackTrace string
}

type NotifyChan chan NotificationEvent

const (
	NotifyLevelInvalid = iota
	NotifyLevelDebug
	NotifyLevelInfo
	NotifyLevelWarn
	NotifyLevelError
)

const (
	NotifyLevelStrInvalid = "INVALID"
	NotifyLevelStrDebug   = "DEBUG"
	NotifyLevelStrInfo    = "INFO"
	NotifyLevelStrWarn    = "WARN"
	NotifyLevelStrError   = "ERROR"
)

var notifyLevelName = map[int]string{
	NotifyLevelInvalid: NotifyLevelStrInvalid,
	NotifyLevelDebug:   NotifyLevelStrDebug,
	NotifyLevelInfo:    NotifyLevelStrInfo,
	NotifyLevelWarn:    NotifyLevelStrWarn,
	NotifyLevelError:   NotifyLevelStrError,
}

func NotifyLevelName(notifyLevel int) string {
	name, ok := notifyLevelName[notifyLevel]
	if !ok {
		name = "INVALID"
	}
	return name
}

// NotifyLevel converts a level name to its int value, returning
// NotifyLevelInvalid for unknown names.
func NotifyLevel(name string) int {
	for level, levelName := range notifyLevelName {
		if levelName == name {
			return level
		}
	}
	return NotifyLevelInvalid
}
