package entities

// All lists every persisted entity in dependency order.
func All() []any {
	return []any{
		&User{},
		&Series{},
		&Episode{},
		&AiJob{},
		&UserEpisodeProgress{},
		&Transaction{},
	}
}
