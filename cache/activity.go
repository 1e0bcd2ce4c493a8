package cache

import (
	"fmt"

	"books/models"

	jsoniter "github.com/json-iterator/go"
)

// Record pushes request onto the activity list of username.
func Record(cacher RequestCacher, username string, request models.UserRequest) error {
	entry, err := jsoniter.ConfigFastest.Marshal(request)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}

	return cacher.Write(activityKey(username), entry)
}

// Recent returns the remembered requests of username, newest first.
func Recent(cacher RequestCacher, username string) ([]models.UserRequest, error) {
	entries, err := cacher.Read(activityKey(username))
	if err != nil {
		return nil, fmt.Errorf("read activity of %s: %w", username, err)
	}

	userRequests := make([]models.UserRequest, 0, len(entries))
	for _, entry := range entries {
		var userRequest models.UserRequest
		if err := jsoniter.ConfigFastest.UnmarshalFromString(entry, &userRequest); err != nil {
			return nil, fmt.Errorf("decode activity of %s: %w", username, err)
		}
		userRequests = append(userRequests, userRequest)
	}

	return userRequests, nil
}

func activityKey(username string) string {
	return "activity:" + username
}
