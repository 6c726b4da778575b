package redis

import (
	"fmt"

	"github.com/hankerbiao/Registration-System/internal/model"
)

// Key prefix for all registration data
const keyPrefix = "regsys"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> user_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// usersIndexKey returns the Redis key for the ZSET of all users by creation time
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// athleteKey returns the Redis key for an Athlete
func athleteKey(id model.AthleteID) string {
	return fmt.Sprintf("%s:athlete:%s", keyPrefix, id)
}

// idNumberIndexKey returns the Redis key for the id_number -> athlete_id index
func idNumberIndexKey(idNumber string) string {
	return fmt.Sprintf("%s:idx:id_number:%s", keyPrefix, idNumber)
}

// athletesIndexKey returns the Redis key for the ZSET of all athletes by creation time
func athletesIndexKey() string {
	return fmt.Sprintf("%s:idx:athletes", keyPrefix)
}

// ownerAthletesIndexKey returns the Redis key for the ZSET of one team's athletes
func ownerAthletesIndexKey(owner model.UserID) string {
	return fmt.Sprintf("%s:idx:athletes_by_owner:%s", keyPrefix, owner)
}
