package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Google rejects q much past 200 characters; gTTS sends at most 100 per request.
const googleMaxChars = 100

const clauseEnds = ".!?,;:…।\n"

// GoogleTTS talks to the Google Translate speech endpoint, the same one gTTS uses.
// The accent is chosen through the host's top-level domain.
type GoogleTTS struct {
	httpCli *http.Client
	baseURL string // overrides https://translate.google.<tld> when set
}

func NewGoogleTTS() *GoogleTTS {
	return &GoogleTTS{
		httpCli: &http.Client{Timeout: 30 * time.Second},
	}
}

func NewGoogleTTSWithURL(baseURL string) *GoogleTTS {
	t := NewGoogleTTS()
	t.baseURL = baseURL
	return t
}

func tldFor(voice Voice) string {
	if voice.Lang == "en" && voice.IndianAccent {
		return "co.in"
	}
	return "com"
}

func (t *GoogleTTS) endpoint(voice Voice) string {
	if t.baseURL != "" {
		return t.baseURL + "/translate_tts"
	}
	return fmt.Sprintf("https://translate.google.%s/translate_tts", tldFor(voice))
}

// Synthesize voices text chunk by chunk and returns the MP3 parts joined in order.
func (t *GoogleTTS) Synthesize(ctx context.Context, text string, voice Voice) (*bytes.Reader, error) {
	chunks := splitChunks(text, googleMaxChars)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	buf := new(bytes.Buffer)
	for i, chunk := range chunks {
		if err := t.fetch(ctx, buf, chunk, voice, i, len(chunks)); err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return bytes.NewReader(buf.Bytes()), nil
}

func (t *GoogleTTS) fetch(ctx context.Context, dst io.Writer, chunk string, voice Voice, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", voice.Lang)
	q.Set("q", chunk)
	q.Set("ttsspeed", "1")
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint(voice)+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://translate.google."+tldFor(voice)+"/")

	resp, err := t.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("google tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("google tts failed: status=%d body=%s", resp.StatusCode, b)
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("read google tts audio: %w", err)
	}
	return nil
}

// splitChunks cuts text into pieces of at most limit runes, preferring clause
// ends, then word boundaries. A single word longer than limit is cut hard.
func splitChunks(text string, limit int) []string {
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, clause := range splitClauses(text) {
		for _, part := range fitWords(clause, limit) {
			n := utf8.RuneCountInString(part)
			if curLen > 0 && curLen+1+n > limit {
				flush()
			}
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(part)
			curLen += n
		}
	}
	flush()
	return chunks
}

func splitClauses(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i, r := range runes {
		if !strings.ContainsRune(clauseEnds, r) {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if c := strings.TrimSpace(string(runes[start : i+1])); c != "" {
			out = append(out, c)
		}
		start = i + 1
	}
	if c := strings.TrimSpace(string(runes[start:])); c != "" {
		out = append(out, c)
	}
	return out
}

func fitWords(clause string, limit int) []string {
	var (
		out    []string
		line   []string
		lineLn int
	)
	for _, w := range strings.Fields(clause) {
		for utf8.RuneCountInString(w) > limit {
			r := []rune(w)
			if len(line) > 0 {
				out = append(out, strings.Join(line, " "))
				line, lineLn = nil, 0
			}
			out = append(out, string(r[:limit]))
			w = string(r[limit:])
		}
		n := utf8.RuneCountInString(w)
		if n == 0 {
			continue
		}
		if len(line) > 0 && lineLn+1+n > limit {
			out = append(out, strings.Join(line, " "))
			line, lineLn = nil, 0
		}
		if len(line) > 0 {
			lineLn++
		}
		line = append(line, w)
		lineLn += n
	}
	if len(line) > 0 {
		out = append(out, strings.Join(line, " "))
	}
	return out
}
