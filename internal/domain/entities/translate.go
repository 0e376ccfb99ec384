package entities

// Language is one entry of the translation provider's supported-language list
type Language struct {
	Code string `json:"language"`
	Name string `json:"name"`
}
