package chat

import "github.com/goccy/go-json"

// Log is the ordered conversation of one session, oldest turn first.
// Turns are only appended; the whole log can be cleared.
type Log struct {
	turns []Turn
}

func NewLog(turns ...Turn) *Log {
	l := &Log{}
	for _, t := range turns {
		l.Append(t)
	}
	return l
}

func (l *Log) Append(t Turn) {
	l.turns = append(l.turns, t)
}

// Turns returns a copy in display order.
func (l *Log) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

func (l *Log) Last() (Turn, bool) {
	if len(l.turns) == 0 {
		return Turn{}, false
	}
	return l.turns[len(l.turns)-1], true
}

func (l *Log) Len() int {
	return len(l.turns)
}

func (l *Log) Clear() {
	l.turns = nil
}

// Clone returns an independent copy of the log.
func (l *Log) Clone() Log {
	return Log{turns: l.Turns()}
}

func (l Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Turns())
}

func (l *Log) UnmarshalJSON(b []byte) error {
	var turns []Turn
	if err := json.Unmarshal(b, &turns); err != nil {
		return err
	}
	l.turns = turns
	return nil
}
