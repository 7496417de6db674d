package outline

import (
	"fmt"
	"strings"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"
)

var agenda = []string{
	"Introduction",
	"Background",
	"Key concepts",
	"Current state",
	"Case study",
	"Challenges",
	"Opportunities",
	"Comparison of approaches",
	"Methodology",
	"Results",
	"Discussion",
	"Recommendations",
	"Future outlook",
	"Practical applications",
	"Risks and limitations",
	"Open questions",
	"Summary of findings",
	"Further reading",
}

func localOutline(req presentation.Request) *Outline {
	topic := strings.TrimSpace(req.Topic)

	intro := []string{req.Style.Label() + " style"}
	if r := strings.TrimSpace(req.Requirements); r != "" {
		intro = append(intro, r)
	}

	slides := []Slide{{Title: topic, Bullets: intro}}
	for i := 0; i < req.Slides-2; i++ {
		title := agenda[i%len(agenda)]
		if i >= len(agenda) {
			title = fmt.Sprintf("%s (continued)", title)
		}
		slides = append(slides, Slide{
			Title: title,
			Bullets: []string{
				fmt.Sprintf("%s: %s", title, topic),
			},
		})
	}
	slides = append(slides, Slide{
		Title:   "Conclusions",
		Bullets: []string{"Key takeaways on " + topic, "Questions"},
	})

	return &Outline{Title: topic, Slides: slides}
}

// normalize trims or pads o to req.Slides slides and fills missing titles.
func normalize(o *Outline, req presentation.Request) *Outline {
	topic := strings.TrimSpace(req.Topic)
	if strings.TrimSpace(o.Title) == "" {
		o.Title = topic
	}

	if len(o.Slides) > req.Slides {
		o.Slides = o.Slides[:req.Slides]
	}
	for len(o.Slides) < req.Slides {
		o.Slides = append(o.Slides, Slide{
			Title: fmt.Sprintf("Notes %d", len(o.Slides)+1),
		})
	}

	for i := range o.Slides {
		if strings.TrimSpace(o.Slides[i].Title) == "" {
			o.Slides[i].Title = fmt.Sprintf("Slide %d", i+1)
		}
	}
	return o
}
