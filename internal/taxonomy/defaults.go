package taxonomy

// 内置默认技能列表
// 数据集文件缺失或损坏时的兜底，保证技能提取始终可用
var defaultTechnicalSkills = []string{
	"Python", "JavaScript", "TypeScript", "Java", "C++", "C#", "PHP", "Go",
	"React", "Angular", "Vue", "Next.js", "Node.js",
	"Django", "Flask", "FastAPI", "Spring", "Laravel", "Symfony",
	"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch",
	"Docker", "Kubernetes", "Jenkins", "Terraform", "Ansible",
	"AWS", "Azure", "GCP",
	"Git", "Linux", "API", "REST", "GraphQL",
	"Pandas", "NumPy", "TensorFlow", "PyTorch",
	"Agile", "Scrum", "Jira",
}

var defaultSoftSkills = []string{
	"Leadership", "Communication", "Teamwork", "Problem Solving",
	"Critical Thinking", "Creativity", "Time Management", "Adaptability",
	"Autonomie", "Travail d'équipe", "Gestion du temps", "Créativité",
	"Esprit d'équipe", "Organisation",
}
