package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const maxNoteLength = 280

// DayNoteWriter asks the model for a one-sentence tip about a generated day.
type DayNoteWriter struct {
	logger    *slog.Logger
	generator ContentGenerator
}

func NewDayNoteWriter(generator ContentGenerator, logger *slog.Logger) *DayNoteWriter {
	return &DayNoteWriter{logger: logger, generator: generator}
}

func (w *DayNoteWriter) WriteDayNote(ctx context.Context, destination string, day types.DailyItineraryDraft) (string, error) {
	if len(day.Places) == 0 {
		return "", nil
	}
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.4),
	}
	text, err := w.generator.GenerateContent(ctx, dayPrompt(destination, day), cfg)
	if err != nil {
		w.logger.WarnContext(ctx, "Day note generation failed",
			slog.Int("day_number", day.DayNumber), slog.Any("error", err))
		return "", fmt.Errorf("day %d note: %w", day.DayNumber, err)
	}
	return cleanNote(text), nil
}

func dayPrompt(destination string, day types.DailyItineraryDraft) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a travel assistant. Day %d in %s has the theme %q and these stops:\n", day.DayNumber, destination, day.Theme)
	for _, p := range day.Places {
		fmt.Fprintf(&sb, "- %s %s (%s)\n", p.VisitTime, p.Place.Name, p.VisitType)
	}
	sb.WriteString("Reply with one short practical tip for this day, as a single sentence without markdown.")
	return sb.String()
}

// cleanNote keeps the first line and caps the length.
func cleanNote(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	text = strings.Trim(text, "*_` ")
	if r := []rune(text); len(r) > maxNoteLength {
		text = string(r[:maxNoteLength])
	}
	return text
}
