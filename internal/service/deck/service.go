package deck

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/outline"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/pkg/errors"
)

// Extension of rendered decks. Decks are Markdown drafts, one section per
// slide separated by horizontal rules, which Marp and similar tools open as
// slides.
const Extension = ".md"

type Service struct {
	logger *logger.Logger
}

func New(log *logger.Logger) *Service {
	return &Service{
		logger: log,
	}
}

func (s *Service) Render(o *outline.Outline, style presentation.Style) ([]byte, error) {
	if o == nil || len(o.Slides) == 0 {
		return nil, errors.New(errors.ErrCodeDeckRender, "outline has no slides")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "---\ntitle: %q\nstyle: %s\nslides: %d\n---\n\n", o.Title, style, len(o.Slides))
	fmt.Fprintf(&buf, "# %s\n", o.Title)

	for i, slide := range o.Slides {
		buf.WriteString("\n---\n\n")
		fmt.Fprintf(&buf, "## %d. %s\n", i+1, slide.Title)
		if len(slide.Bullets) > 0 {
			buf.WriteString("\n")
		}
		for _, b := range slide.Bullets {
			if b = strings.TrimSpace(b); b != "" {
				fmt.Fprintf(&buf, "- %s\n", b)
			}
		}
		if notes := strings.TrimSpace(slide.Notes); notes != "" {
			fmt.Fprintf(&buf, "\n<!-- notes: %s -->\n", notes)
		}
	}

	s.logger.Info("deck rendered",
		"title", o.Title,
		"style", style,
		"slides", len(o.Slides),
		"size_bytes", buf.Len(),
	)

	return buf.Bytes(), nil
}
