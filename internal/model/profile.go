package model

// Document is the single persisted object holding the profile and the project list.
// Every save replaces it as a whole.
type Document struct {
	Profile  Profile   `json:"profile" yaml:"profile"`
	Projects []Project `json:"projects" yaml:"projects"`
}

type Profile struct {
	Name         string `json:"name" yaml:"name"`
	Title        string `json:"title" yaml:"title"`
	Email        string `json:"email" yaml:"email"`
	Phone        string `json:"phone" yaml:"phone"`
	Location     string `json:"location" yaml:"location"`
	Birthdate    string `json:"birthdate" yaml:"birthdate"`
	Bio          string `json:"bio" yaml:"bio"`
	Skills       string `json:"skills" yaml:"skills"` // comma separated
	GitHub       string `json:"github" yaml:"github"`
	LinkedIn     string `json:"linkedin" yaml:"linkedin"`
	ProfileImage string `json:"profileImage,omitempty" yaml:"profileImage,omitempty"`
}

type Project struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description" yaml:"description" validate:"required"`
	// Tech is comma separated.
	Tech string `json:"tech" yaml:"tech"`
	// KeyFeatures is newline separated.
	KeyFeatures string `json:"keyFeatures,omitempty" yaml:"keyFeatures,omitempty"`
	ImageURL    string `json:"imageUrl" yaml:"imageUrl"`
	// VideoURL takes precedence over ImageURL in display.
	VideoURL  string `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
	GitHubURL string `json:"githubUrl,omitempty" yaml:"githubUrl,omitempty"`
	PDFURL    string `json:"pdfUrl,omitempty" yaml:"pdfUrl,omitempty"`
	Year      string `json:"year" yaml:"year"`
}

// Normalize guarantees Projects is never nil so it serializes as [].
func (d *Document) Normalize() {
	if d.Projects == nil {
		d.Projects = []Project{}
	}
}

// Clone returns a deep copy safe to hand out to callers.
func (d Document) Clone() Document {
	projects := make([]Project, len(d.Projects))
	copy(projects, d.Projects)
	return Document{Profile: d.Profile, Projects: projects}
}

// EmptyDocument is what clients fall back to when the server cannot be reached.
func EmptyDocument() Document {
	return Document{Projects: []Project{}}
}

// DefaultDocument is the built-in document served before anything was saved,
// used when no seed file is configured.
func DefaultDocument() Document {
	return Document{
		Profile: Profile{
			Name:      "Your Name",
			Title:     "Full Stack Developer",
			Email:     "example@email.com",
			Phone:     "010-0000-0000",
			Location:  "Seoul",
			Birthdate: "2000-01-01",
			Bio:       "Hello!",
			Skills:    "React, Next.js",
		},
		Projects: []Project{},
	}
}
