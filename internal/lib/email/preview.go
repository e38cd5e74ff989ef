package email

// PreviewData holds sample values for every template, keyed by template name.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName":   "Ada Lovelace",
		"Provider":   "google",
		"CatalogURL": "http://localhost:8080/catalog",
	},
}
