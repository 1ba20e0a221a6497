package main

type Profile struct {
	Name     string
	Role     string
	Badge    string
	Headline string
	Tagline  string
	Email    string
	Phone    string
	Location string
	GitHub   string
	LinkedIn string
}

type Stat struct {
	Value string
	Label string
}

type SkillGroup struct {
	Title string
	Items []string
}

type Project struct {
	ID          int
	Title       string
	Description string
	Tech        []string
	Link        string
	Color       string
}

var (
	Owner = Profile{
		Name:     "Jitendra Saini",
		Role:     "Full Stack Web Developer",
		Badge:    "Full Stack Developer",
		Headline: "I build AI-powered, modern & scalable web applications",
		Tagline: `Expert in React, Node.js, and AI integrations, delivering fast, scalable,
	and production-ready solutions for startups and businesses.`,
		Email:    "jitusaini2705@gmail.com",
		Phone:    "+91 7023187924",
		Location: "Bengaluru, Karnataka",
		GitHub:   "https://github.com/jitendra-sudo",
		LinkedIn: "https://www.linkedin.com/in/jitendra2705/",
	}

	AboutMe = `I'm Jitendra Saini, a Full Stack Developer from Bengaluru. I build elegant, performant web
	applications using React, Node.js, and cloud-native workflows. I also specialize in creating AI-powered
	features, integrating modern LLMs, and building smart user experiences that deliver real business impact.`

	Stats = []Stat{
		{Value: "25+", Label: "Projects"},
		{Value: "1+", Label: "Years Experience"},
		{Value: "98%", Label: "Client Satisfaction"},
		{Value: "24/7", Label: "Support"},
	}

	Skills = []SkillGroup{
		{Title: "Frontend", Items: []string{"React", "TypeScript", "Tailwind", "Next.js"}},
		{Title: "Backend", Items: []string{"Node.js", "Express", "GraphQL", "Auth"}},
		{Title: "Database", Items: []string{"MongoDB", "Postgres", "MySQL"}},
		{Title: "Tools", Items: []string{"Docker", "Git", "Vercel", "AWS"}},
	}

	Projects = []Project{
		{
			ID:          1,
			Title:       "JustFlip Real Estate",
			Description: "Full-stack online store with payment integration & admin dashboard.",
			Tech:        []string{"React", "Node.js", "MongoDB", "Redux", "Razorpay"},
			Link:        "https://justflip.in",
			Color:       "#7c3aed",
		},
		{
			ID:          2,
			Title:       "EasyRenter Portal & CRM",
			Description: "Tenant-Landlord CRM with real-time messaging.",
			Tech:        []string{"React", "Socket.io", "PostgreSQL", "Redux", "node.js"},
			Link:        "https://easyrenter.netlify.app/",
			Color:       "#0ea5e9",
		},
		{
			ID:          3,
			Title:       "ShopSutra E-commerce",
			Description: "Collaborative shopping platform with filters & cart.",
			Tech:        []string{"React", "Redux", "MongoDB", "node.js"},
			Link:        "https://shopsutra.vercel.app/",
			Color:       "#ef4444",
		},
	}
)
