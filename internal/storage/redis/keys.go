package redis

import (
	"fmt"

	"github.com/TheBigR/diceGame-back/internal/model"
)

// Key prefix for all dice game data
const keyPrefix = "dicegame"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// userGamesIndexKey returns the Redis key for the SET of games a user plays in
func userGamesIndexKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:games_for_user:%s", keyPrefix, userID)
}
