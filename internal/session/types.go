package session

import (
	"time"

	"github.com/Vovarama1992/wellness_ai/internal/chat"
)

// Speech is the synthesized audio of the latest reply.
type Speech struct {
	Lang      string `json:"lang"`
	Audio     []byte `json:"audio,omitempty"`
	PublicURL string `json:"public_url,omitempty"`
}

// Data is everything kept for one user session.
type Data struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
	Log       chat.Log  `json:"log"`
	Language  string    `json:"language,omitempty"`
	Speech    *Speech   `json:"speech,omitempty"`
}

func New(id string) *Data {
	return &Data{ID: id}
}

// Clone returns a deep copy so callers never share the stored log.
func (d *Data) Clone() *Data {
	out := *d
	out.Log = d.Log.Clone()
	if d.Speech != nil {
		sp := *d.Speech
		sp.Audio = append([]byte(nil), d.Speech.Audio...)
		out.Speech = &sp
	}
	return &out
}

// ClearSpeech drops cached audio; called whenever the log changes.
func (d *Data) ClearSpeech() {
	d.Speech = nil
}
