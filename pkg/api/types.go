package api

import "time"

// CreateSpaceRequest is the payload for creating a space.
type CreateSpaceRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// CreateSpaceResponse echoes the space name and its resource URI.
type CreateSpaceResponse struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// PostMessageRequest is the payload for posting a message to a space.
type PostMessageRequest struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

// PostMessageResponse carries the URI of the created message.
type PostMessageResponse struct {
	URI string `json:"uri"`
}

// ReadMessageResponse is the full representation of a single message.
type ReadMessageResponse struct {
	Author  string    `json:"author"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	URI     string    `json:"uri"`
}

// RegisterUserRequest is the payload for registering a user.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterUserResponse echoes the registered username.
type RegisterUserResponse struct {
	Username string `json:"username"`
}
