package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTLDFor(t *testing.T) {
	tests := []struct {
		voice Voice
		want  string
	}{
		{Voice{Lang: "en", IndianAccent: true}, "co.in"},
		{Voice{Lang: "en"}, "com"},
		{Voice{Lang: "hi"}, "com"},
		{Voice{Lang: "hi", IndianAccent: true}, "com"},
	}
	for _, tt := range tests {
		if got := tldFor(tt.voice); got != tt.want {
			t.Errorf("tldFor(%+v) = %s, want %s", tt.voice, got, tt.want)
		}
	}
}

func TestGoogleTTS_DefaultEndpoint(t *testing.T) {
	g := NewGoogleTTS()
	if got := g.endpoint(LanguageEnglishIndia.Voice()); got != "https://translate.google.co.in/translate_tts" {
		t.Errorf("unexpected endpoint %s", got)
	}
	if got := g.endpoint(LanguageHindi.Voice()); got != "https://translate.google.com/translate_tts" {
		t.Errorf("unexpected endpoint %s", got)
	}
}

func TestGoogleTTS_Synthesize(t *testing.T) {
	var lang, text string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_tts" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		lang = r.URL.Query().Get("tl")
		text = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3mp3data"))
	}))
	defer server.Close()

	g := NewGoogleTTSWithURL(server.URL)
	audio, err := g.Synthesize(context.Background(), "शांत रहें", Voice{Lang: "hi"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	b, _ := io.ReadAll(audio)
	if string(b) != "ID3mp3data" {
		t.Fatalf("unexpected audio %q", b)
	}
	if lang != "hi" || text != "शांत रहें" {
		t.Fatalf("unexpected query: tl=%s q=%s", lang, text)
	}
}

func TestGoogleTTS_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many", http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := NewGoogleTTSWithURL(server.URL).Synthesize(context.Background(), "hi", Voice{Lang: "en"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGoogleTTS_LongReplyIsChunked(t *testing.T) {
	sentences := []string{
		"Take a slow breath in through your nose and let your belly rise gently.",
		"Hold it for a moment, then release the air slowly through your mouth.",
		"Nadi shodhana, alternate nostril breathing, can settle a restless mind before sleep.",
		"Sit tall, rest your left hand on your knee, and close the right nostril with your thumb.",
		"Ayurveda suggests warm milk with a pinch of nutmeg in the evening to ease tension.",
		"If the worry stays with you for weeks, please speak with a counsellor or a doctor.",
		"Be patient with yourself; small daily practice matters more than long sessions.",
	}
	reply := strings.Join(sentences, " ")
	if len(reply) < 500 {
		t.Fatalf("reply too short for the test: %d", len(reply))
	}

	var parts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if utf8.RuneCountInString(q) > 200 {
			http.Error(w, "text too long", http.StatusBadRequest)
			return
		}
		if idx := r.URL.Query().Get("idx"); idx != strconv.Itoa(len(parts)) {
			http.Error(w, "out of order", http.StatusBadRequest)
			return
		}
		parts = append(parts, q)
		_, _ = w.Write([]byte("<" + q + ">"))
	}))
	defer server.Close()

	audio, err := NewGoogleTTSWithURL(server.URL).Synthesize(context.Background(), reply, Voice{Lang: "en", IndianAccent: true})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if len(parts) < 6 {
		t.Fatalf("expected several requests, got %d", len(parts))
	}
	var want strings.Builder
	for _, p := range parts {
		if n := utf8.RuneCountInString(p); n > googleMaxChars {
			t.Errorf("chunk of %d runes: %q", n, p)
		}
		want.WriteString("<" + p + ">")
	}
	b, _ := io.ReadAll(audio)
	if string(b) != want.String() {
		t.Fatalf("audio is not the joined parts:\n%s", b)
	}
	if got := strings.Join(parts, " "); got != reply {
		t.Fatalf("chunks lost text:\n%s\n%s", got, reply)
	}
}

func TestGoogleTTS_ChunkFailureAborts(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("mp3"))
	}))
	defer server.Close()

	text := strings.Repeat("Breathe in and breathe out slowly. ", 10)
	if _, err := NewGoogleTTSWithURL(server.URL).Synthesize(context.Background(), text, Voice{Lang: "en"}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Fatalf("expected to stop after the failed chunk, made %d calls", calls)
	}
}

func TestSplitChunks(t *testing.T) {
	hindi := "गहरी साँस लें। धीरे धीरे छोड़ें। हर दिन पाँच मिनट ध्यान करें और अपने मन को शांत रखें। " +
		"योग और प्राणायाम से तनाव कम होता है। गंभीर समस्या हो तो डॉक्टर से बात करें।"
	long := strings.Repeat("a", 250)

	tests := []struct {
		name string
		text string
	}{
		{"short", "Stay calm."},
		{"hindi", hindi},
		{"long word", "start " + long + " end"},
		{"no punctuation", strings.Repeat("relax your shoulders ", 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := splitChunks(tt.text, googleMaxChars)
			if len(chunks) == 0 {
				t.Fatal("no chunks")
			}
			for _, c := range chunks {
				if n := utf8.RuneCountInString(c); n == 0 || n > googleMaxChars {
					t.Errorf("bad chunk of %d runes: %q", n, c)
				}
			}
			got := strings.ReplaceAll(strings.Join(chunks, ""), " ", "")
			want := strings.ReplaceAll(tt.text, " ", "")
			if got != want {
				t.Errorf("text changed:\n%s\n%s", got, want)
			}
		})
	}

	if got := splitChunks("  \n ", googleMaxChars); len(got) != 0 {
		t.Errorf("blank text gave %q", got)
	}
	if got := splitChunks("Stay calm. Breathe.", googleMaxChars); len(got) != 1 {
		t.Errorf("short text split into %q", got)
	}
}
