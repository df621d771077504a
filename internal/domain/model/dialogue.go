package model

// Character is an NPC tied to exactly one level.
type Character struct {
	ID      int64   `json:"id"`
	LevelID int64   `json:"level_id"`
	Name    string  `json:"name"`
	Title   *string `json:"title,omitempty"`
}

// DialogueLine is one ordered line of a level's scripted conversation,
// returned joined with its character's name and title.
type DialogueLine struct {
	ID             int64   `json:"id"`
	LevelID        int64   `json:"-"`
	CharacterID    int64   `json:"-"`
	Sequence       int     `json:"sequence"`
	Speaker        string  `json:"speaker"`
	Text           string  `json:"text"`
	GivesKey       bool    `json:"gives_key"`
	CharacterName  string  `json:"character_name"`
	CharacterTitle *string `json:"character_title"`
}
