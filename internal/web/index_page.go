// Package web renders the Mini App form page.
package web

import (
	"bytes"
	"html/template"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/submission"
)

type StyleOption struct {
	Value string
	Label string
}

type IndexPageData struct {
	APIPath        string
	SlideCounts    []int
	DefaultSlides  int
	Styles         []StyleOption
	DefaultStyle   string
	FailureMessage string
}

// DefaultIndexPageData returns the page data matching the submission
// controller's contract.
func DefaultIndexPageData() IndexPageData {
	styles := make([]StyleOption, 0, len(presentation.Styles))
	for _, s := range presentation.Styles {
		styles = append(styles, StyleOption{Value: string(s), Label: s.Label()})
	}
	return IndexPageData{
		APIPath:        submission.Path,
		SlideCounts:    presentation.SlideCounts,
		DefaultSlides:  presentation.DefaultSlides,
		Styles:         styles,
		DefaultStyle:   string(presentation.DefaultStyle),
		FailureMessage: submission.FailureMessage,
	}
}

var indexPageTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Presentation in 15 minutes</title>
    <script src="https://telegram.org/js/telegram-web-app.js"></script>
    <style>
      body { font-family: system-ui, sans-serif; padding: 16px; margin: 0; }
      form { display: flex; flex-direction: column; gap: 12px; }
      label { display: block; }
      textarea, select { width: 100%; margin-top: 4px; box-sizing: border-box; }
      .hint { font-size: 14px; opacity: 0.8; }
      button {
        margin-top: 8px;
        padding: 10px 16px;
        border-radius: 8px;
        border: none;
        background: #4c6fff;
        color: white;
        font-weight: 600;
      }
      button:disabled { opacity: 0.6; }
      .result { margin-top: 16px; padding: 12px; border-radius: 8px; }
      .done { background: #e8f5e9; }
      .error { background: #fdecea; }
      [hidden] { display: none; }
    </style>
  </head>
  <body>
    <h2>Presentation in 15 minutes</h2>
    <p class="hint">Enter a topic, pick the number of slides and a style, and the assistant drafts the structure and text.</p>

    <form id="deck-form">
      <label>
        Presentation topic
        <textarea id="topic" rows="3" placeholder="For example: the impact of AI on higher education"></textarea>
      </label>

      <label>
        Number of slides
        <select id="slides">
          {{- range .SlideCounts}}
          <option value="{{.}}"{{if eq . $.DefaultSlides}} selected{{end}}>{{.}}</option>
          {{- end}}
        </select>
      </label>

      <label>
        Style
        <select id="style">
          {{- range .Styles}}
          <option value="{{.Value}}"{{if eq .Value $.DefaultStyle}} selected{{end}}>{{.Label}}</option>
          {{- end}}
        </select>
      </label>

      <label>
        Special requirements (optional)
        <textarea id="requirements" rows="2" placeholder="For example: add a conclusions slide and a reference list"></textarea>
      </label>

      <button id="submit" type="submit">Create presentation</button>
    </form>

    <div id="done" class="result done" hidden>
      <strong>Draft is ready!</strong>
      <p><a id="link" href="#" target="_blank" rel="noopener">Download presentation</a></p>
    </div>
    <div id="error" class="result error" hidden></div>

    <script>
      (function () {
        var apiPath = {{.APIPath}};
        var failureMessage = {{.FailureMessage}};
        var status = "idle";

        if (window.Telegram && window.Telegram.WebApp) {
          window.Telegram.WebApp.ready();
        }

        var form = document.getElementById("deck-form");
        var button = document.getElementById("submit");
        var doneBox = document.getElementById("done");
        var link = document.getElementById("link");
        var errorBox = document.getElementById("error");

        function render(next, value) {
          status = next;
          button.disabled = status === "loading";
          button.textContent = status === "loading" ? "Generating..." : "Create presentation";
          doneBox.hidden = status !== "done";
          errorBox.hidden = status !== "error";
          if (status === "done") { link.href = value; }
          errorBox.textContent = status === "error" ? value : "";
        }

        // Same rules as the Go client: a null body or a missing/null/empty
        // link means the placeholder, anything that is not an object with a
        // string link is a failure.
        function presentationLink(data) {
          if (data === null) { return "#"; }
          if (typeof data !== "object" || Array.isArray(data)) { throw new Error("unexpected body"); }
          var link = data.presentation;
          if (link === undefined || link === null || link === "") { return "#"; }
          if (typeof link !== "string") { throw new Error("unexpected link"); }
          return link;
        }

        form.addEventListener("submit", async function (e) {
          e.preventDefault();
          var topic = document.getElementById("topic").value;
          if (!topic.trim() || status === "loading") { return; }

          render("loading");
          try {
            var res = await fetch(apiPath, {
              method: "POST",
              headers: { "Content-Type": "application/json" },
              body: JSON.stringify({
                topic: topic,
                slides_count: Number(document.getElementById("slides").value),
                style: document.getElementById("style").value,
                requirements: document.getElementById("requirements").value
              })
            });
            if (!res.ok) { throw new Error("status " + res.status); }
            var data = await res.json();
            render("done", presentationLink(data));
          } catch (err) {
            render("error", failureMessage);
          }
        });
      })();
    </script>
  </body>
</html>
`))

func RenderIndexPage(data IndexPageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexPageTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
