package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/ui"
	"github.com/templui/folio/internal/ui/layouts"
)

type HomeProps struct {
	Document     model.Document
	CanonicalURL string
	Editing      bool
	Enforced     bool
	Year         int

	// Markdown renders the bio and project descriptions. Nil shows them as plain text.
	Markdown func(string) templ.Component
}

// reloadScript reloads visitors' pages after the editor saves.
const reloadScript = `
(function () {
	var proto = location.protocol === "https:" ? "wss://" : "ws://";
	var ws = new WebSocket(proto + location.host + "/ws");
	ws.onmessage = function (ev) {
		var msg = JSON.parse(ev.data);
		if (msg.type === "document_saved" && document.body.dataset.editing !== "true") {
			location.reload();
		}
	};
})();
`

func Home(props HomeProps) templ.Component {
	profile := props.Document.Profile

	title := profile.Name
	if profile.Title != "" {
		title += " · " + profile.Title
	}

	return layouts.Base(layouts.BaseProps{
		Title:        title,
		Description:  profile.Title,
		CanonicalURL: props.CanonicalURL,
	}, homeBody(props))
}

func homeBody(props HomeProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Open("body",
			"data-editing", strconv.FormatBool(props.Editing),
			"data-enforced", strconv.FormatBool(props.Enforced),
		)
		h.Raw("\n")

		profileHeader(ctx, h, props)
		projectList(ctx, h, props)

		h.Open("footer")
		h.Raw("<p>&copy; ")
		h.Text(strconv.Itoa(props.Year) + " " + props.Document.Profile.Name)
		h.Raw("</p>")
		h.Close("footer")
		h.Raw("\n")

		nonce := templ.GetNonce(ctx)
		if nonce != "" {
			h.Open("script", "nonce", nonce)
		} else {
			h.Open("script")
		}
		h.Raw(reloadScript)
		h.Close("script")
		h.Raw("\n")

		h.Close("body")
		h.Raw("\n")
		return h.Err()
	})
}

func profileHeader(ctx context.Context, h *ui.HTML, props HomeProps) {
	p := props.Document.Profile

	h.Open("header", "id", "profile")
	if p.ProfileImage != "" {
		h.Open("img", "class", "avatar", "src", ui.URL(p.ProfileImage), "alt", "")
	}
	h.Elem("h1", p.Name)
	h.Elem("p", p.Title, "class", "title")

	h.Open("ul", "class", "contact")
	if p.Email != "" {
		h.Open("li")
		h.Elem("a", p.Email, "href", ui.URL("mailto:"+p.Email))
		h.Close("li")
	}
	for _, v := range []string{p.Phone, p.Location, p.Birthdate} {
		if v != "" {
			h.Elem("li", v)
		}
	}
	for _, link := range []struct{ label, url string }{{"GitHub", p.GitHub}, {"LinkedIn", p.LinkedIn}} {
		if link.url != "" {
			h.Open("li")
			h.Elem("a", link.label, "href", ui.URL(link.url), "rel", "noopener")
			h.Close("li")
		}
	}
	h.Close("ul")

	h.Open("section", "class", "bio")
	markdown(ctx, h, props.Markdown, p.Bio)
	h.Close("section")

	list(h, "skills", p.SkillList())
	h.Close("header")
	h.Raw("\n")
}

func projectList(ctx context.Context, h *ui.HTML, props HomeProps) {
	h.Open("main", "id", "projects")
	h.Elem("h2", "Projects")

	if len(props.Document.Projects) == 0 {
		h.Elem("p", "No projects yet.", "class", "empty")
	}
	for _, project := range props.Document.Projects {
		projectCard(ctx, h, props.Markdown, project)
	}

	h.Close("main")
	h.Raw("\n")
}

func projectCard(ctx context.Context, h *ui.HTML, md func(string) templ.Component, p model.Project) {
	h.Open("article", "class", "project", "id", "project-"+strconv.FormatInt(p.ID, 10))

	switch {
	case p.HasVideo():
		h.Open("video", "src", ui.URL(p.VideoURL), "controls", "", "preload", "metadata")
		h.Close("video")
	case p.ImageURL != "":
		h.Open("img", "src", ui.URL(p.ImageURL), "alt", p.Title, "loading", "lazy")
	}

	h.Open("h3")
	h.Text(p.Title)
	if p.Year != "" {
		h.Raw(" ")
		h.Elem("span", p.Year, "class", "year")
	}
	h.Close("h3")

	h.Open("div", "class", "description")
	markdown(ctx, h, md, p.Description)
	h.Close("div")

	list(h, "tech", p.TechList())
	list(h, "features", p.FeatureList())

	if p.GitHubURL != "" || p.PDFURL != "" {
		h.Open("p", "class", "links")
		if p.GitHubURL != "" {
			h.Elem("a", "Code", "href", ui.URL(p.GitHubURL), "rel", "noopener")
		}
		if p.PDFURL != "" {
			h.Elem("a", "PDF", "href", ui.URL(p.PDFURL), "rel", "noopener")
		}
		h.Close("p")
	}

	h.Close("article")
	h.Raw("\n")
}

func markdown(ctx context.Context, h *ui.HTML, md func(string) templ.Component, s string) {
	if md == nil {
		h.Elem("p", s)
		return
	}
	h.Component(ctx, md(s))
}

func list(h *ui.HTML, class string, items []string) {
	if len(items) == 0 {
		return
	}
	h.Open("ul", "class", class)
	for _, item := range items {
		h.Elem("li", item)
	}
	h.Close("ul")
}
