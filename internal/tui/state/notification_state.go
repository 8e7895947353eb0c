package state

type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelSuccess
	LevelError
)

// maxNotifications is how many messages fit on the notification line
const maxNotifications = 3

type Notification struct {
	Level   NotificationLevel
	Message string
}

// NotificationState holds the messages shown under the card list.
// They last until the next key press in NormalMode.
type NotificationState struct {
	items []Notification
}

func NewNotificationState() *NotificationState {
	return &NotificationState{}
}

// Add appends a message. A repeat of the newest message is dropped, and
// only the latest maxNotifications are kept.
func (s *NotificationState) Add(level NotificationLevel, message string) {
	n := Notification{Level: level, Message: message}
	if len(s.items) > 0 && s.items[len(s.items)-1] == n {
		return
	}
	s.items = append(s.items, n)
	if over := len(s.items) - maxNotifications; over > 0 {
		s.items = s.items[over:]
	}
}

func (s *NotificationState) Clear()              { s.items = nil }
func (s *NotificationState) All() []Notification { return s.items }
func (s *NotificationState) HasAny() bool        { return len(s.items) > 0 }
