package domain

// EmotionalToolkitItem agrupa las acciones que el usuario guardó para una emoción.
type EmotionalToolkitItem struct {
	Emotion string   `json:"emotion"`
	Actions []string `json:"actions"`
}
