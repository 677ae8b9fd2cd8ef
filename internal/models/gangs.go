package models

const (
	GangPotatoes = "potatoes"
	GangTomatoes = "tomatoes"
)

// Gangs lists every team a player may join.
var Gangs = []string{GangPotatoes, GangTomatoes}
