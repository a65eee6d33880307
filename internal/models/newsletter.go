package models

import "time"

type Subscriber struct {
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	SubscribedAt time.Time `json:"subscribed_at"`
	Source       string    `json:"source,omitempty"`
}

type MessageData struct {
	Message string `json:"message"`
}

type JSONErrorData struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
