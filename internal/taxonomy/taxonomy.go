// Package taxonomy holds the static skill and education reference tables.
// The tables are built once at init and are read-only afterwards, so they are
// safe to share across concurrent analyzer and scoring calls.
package taxonomy

import "strings"

// Category is a skill grouping. Values are stable identifiers that appear in
// serialized profiles.
type Category string

const (
	ProgrammingLanguages Category = "programming_languages"
	Frameworks           Category = "frameworks"
	Databases            Category = "databases"
	Tools                Category = "tools"
	SoftSkills           Category = "soft_skills"
	CloudPlatforms       Category = "cloud_platforms"
	Methodologies        Category = "methodologies"
	Certifications       Category = "certifications"
)

// Skill is one canonical taxonomy entry. Order is the declaration position,
// used as the deterministic tie-break when scores are equal.
type Skill struct {
	Name     string
	Category Category
	Order    int
}

// categorySkills lists every canonical skill per category. Declaration order
// matters: it defines detection order and score tie-breaking.
var categorySkills = []struct {
	category Category
	skills   []string
}{
	{ProgrammingLanguages, []string{
		"Python", "JavaScript", "Java", "C++", "C#", "C", "Ruby", "PHP",
		"Swift", "Kotlin", "Go", "Rust", "TypeScript", "Scala", "R",
		"Perl", "Objective-C", "Dart", "MATLAB", "Shell", "Bash",
		"PowerShell", "VBA", "SQL", "PL/SQL", "T-SQL", "Groovy", "Lua",
		"Haskell", "Elixir", "Clojure", "F#", "Julia", "Assembly",
	}},
	{Frameworks, []string{
		"React", "Angular", "Vue.js", "Vue", "Node.js", "Express.js",
		"Django", "Flask", "FastAPI", "Spring", "Spring Boot", "Hibernate",
		".NET", "ASP.NET", "Laravel", "Symfony", "Ruby on Rails", "Rails",
		"jQuery", "Bootstrap", "Tailwind CSS", "Material-UI", "Next.js",
		"Nuxt.js", "Gatsby", "Svelte", "Ember.js", "Backbone.js",
		"Redux", "MobX", "TensorFlow", "PyTorch", "Keras", "Scikit-learn",
		"Pandas", "NumPy", "Apache Spark", "Hadoop", "Kafka", "RabbitMQ",
		"Selenium", "Cypress", "Jest", "Mocha", "Pytest", "JUnit",
		"TestNG", "Cucumber", "Playwright",
	}},
	{Databases, []string{
		"MySQL", "PostgreSQL", "MongoDB", "Oracle", "SQL Server", "SQLite",
		"Redis", "Cassandra", "DynamoDB", "Elasticsearch", "MariaDB",
		"CouchDB", "Neo4j", "Firebase", "Firestore", "Supabase",
		"InfluxDB", "TimescaleDB", "Memcached", "Amazon RDS", "Azure SQL",
		"Google Cloud SQL", "Snowflake", "BigQuery", "Redshift",
	}},
	{Tools, []string{
		"Git", "GitHub", "GitLab", "Bitbucket", "Docker", "Kubernetes",
		"Jenkins", "Travis CI", "CircleCI", "GitHub Actions", "GitLab CI",
		"Terraform", "Ansible", "Chef", "Puppet", "Vagrant", "AWS",
		"Azure", "Google Cloud", "GCP", "Heroku", "Netlify", "Vercel",
		"JIRA", "Confluence", "Trello", "Asana", "Slack", "VS Code",
		"Visual Studio", "IntelliJ IDEA", "PyCharm", "Eclipse", "Postman",
		"Insomnia", "Swagger", "Nginx", "Apache", "Linux", "Unix",
		"Windows Server", "Bash", "PowerShell", "Vim", "Emacs",
		"Webpack", "Vite", "Babel", "ESLint", "Prettier", "npm", "yarn",
		"pip", "Maven", "Gradle", "Make", "CMake", "Figma", "Sketch",
		"Adobe XD", "Photoshop", "Illustrator", "Tableau", "Power BI",
		"Grafana", "Prometheus", "Datadog", "New Relic", "Splunk",
	}},
	{SoftSkills, []string{
		"Leadership", "Communication", "Teamwork", "Problem Solving",
		"Critical Thinking", "Analytical", "Project Management",
		"Time Management", "Adaptability", "Creativity", "Collaboration",
		"Presentation", "Negotiation", "Conflict Resolution",
		"Decision Making", "Strategic Planning", "Mentoring", "Coaching",
		"Agile", "Scrum", "Kanban", "Stakeholder Management",
		"Client Relations", "Customer Service", "Public Speaking",
		"Writing", "Documentation", "Research", "Innovation",
		"Attention to Detail", "Organization", "Multitasking",
		"Self-motivated", "Proactive", "Results-driven",
	}},
	{CloudPlatforms, []string{
		"AWS", "Amazon Web Services", "Azure", "Microsoft Azure",
		"Google Cloud", "GCP", "Google Cloud Platform", "IBM Cloud",
		"Oracle Cloud", "DigitalOcean", "Linode", "Heroku", "Netlify",
		"Vercel", "Cloudflare", "Alibaba Cloud",
	}},
	{Methodologies, []string{
		"Agile", "Scrum", "Kanban", "Waterfall", "DevOps", "CI/CD",
		"Test-Driven Development", "TDD", "Behavior-Driven Development",
		"BDD", "Microservices", "RESTful API", "GraphQL", "SOAP",
		"Object-Oriented Programming", "OOP", "Functional Programming",
		"Design Patterns", "MVC", "MVVM", "Clean Architecture",
		"Domain-Driven Design", "DDD",
	}},
	{Certifications, []string{
		"AWS Certified", "Azure Certified", "Google Cloud Certified",
		"PMP", "Scrum Master", "CSM", "CISSP", "CompTIA", "CCNA",
		"CCNP", "RHCE", "RHCSA", "CKA", "CKAD", "Oracle Certified",
		"Microsoft Certified", "Salesforce Certified",
	}},
}

// skillAliases maps common shorthands to canonical skill names.
var skillAliases = map[string]string{
	"js":       "JavaScript",
	"ts":       "TypeScript",
	"py":       "Python",
	"golang":   "Go",
	"k8s":      "Kubernetes",
	"postgres": "PostgreSQL",
	"mongo":    "MongoDB",
	"react.js": "React",
	"reactjs":  "React",
	"vue.js":   "Vue",
	"node":     "Node.js",
	"nodejs":   "Node.js",
	"express":  "Express.js",
	"next":     "Next.js",
	"nuxt":     "Nuxt.js",
	"tf":       "TensorFlow",
	"sklearn":  "Scikit-learn",
	"aws":      "AWS",
	"gcp":      "Google Cloud",
	"ci/cd":    "CI/CD",
	"rest":     "RESTful API",
	"oop":      "Object-Oriented Programming",
	"tdd":      "Test-Driven Development",
	"bdd":      "Behavior-Driven Development",
	"ddd":      "Domain-Driven Design",
}

var (
	ordered []Skill
	byLower map[string]int // lowercased name -> index into ordered
)

func init() {
	byLower = make(map[string]int)
	for _, group := range categorySkills {
		for _, name := range group.skills {
			key := strings.ToLower(name)
			if idx, seen := byLower[key]; seen {
				// A handful of names (AWS, Agile, Bash, ...) appear in two
				// categories. The first declaration keeps its position in
				// detection order; the last declaration wins the category.
				ordered[idx].Category = group.category
				continue
			}
			byLower[key] = len(ordered)
			ordered = append(ordered, Skill{
				Name:     name,
				Category: group.category,
				Order:    len(ordered),
			})
		}
	}
}

// All returns every canonical skill in declaration order. The returned slice
// is shared; callers must not modify it.
func All() []Skill {
	return ordered
}

// Lookup resolves a canonical skill name, case-insensitively.
func Lookup(name string) (Skill, bool) {
	idx, ok := byLower[strings.ToLower(name)]
	if !ok {
		return Skill{}, false
	}
	return ordered[idx], true
}

// ResolveAlias maps a shorthand like "k8s" to its canonical skill. The second
// return is false when the alias is unknown or its target is not in the
// taxonomy.
func ResolveAlias(alias string) (Skill, bool) {
	canonical, ok := skillAliases[strings.ToLower(alias)]
	if !ok {
		return Skill{}, false
	}
	return Lookup(canonical)
}

// Aliases returns the alias table. The returned map is shared; callers must
// not modify it.
func Aliases() map[string]string {
	return skillAliases
}
