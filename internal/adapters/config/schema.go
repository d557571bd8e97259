package config

// Forgefile represents the structure of the forge.yaml workspace file.
// It configures the build Environment only; target graphs are
// constructed programmatically by the host application.
type Forgefile struct {
	Project  string `yaml:"project"`
	Build    string `yaml:"build"`
	Cache    string `yaml:"cache"`
	Copy     string `yaml:"copy"`
	Platform string `yaml:"platform"`
	Mode     string `yaml:"mode"`
}
