// Package vk wraps the pieces of the VK platform the app consumes: the API
// client itself and the current user's identity.
package vk

import (
	"fmt"

	"github.com/SevereCloud/vksdk/v2/api"
)

func NewVK(token string) *api.VK {
	return api.NewVK(token)
}

// User is the slim identity the app needs for greetings and scoping.
type User struct {
	ID        int
	FirstName string
	LastName  string
}

// CurrentUser resolves the identity of the token's owner via users.get.
func CurrentUser(vk *api.VK) (*User, error) {
	users, err := vk.UsersGet(api.Params{})
	if err != nil {
		return nil, fmt.Errorf("users.get: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("users.get: empty response")
	}
	u := users[0]
	return &User{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}, nil
}
