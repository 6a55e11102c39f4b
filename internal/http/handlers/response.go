package handlers

import "github.com/appclacks/fleetwatch/pkg/client"

func NewResponse(messages ...string) client.Response {
	return client.Response{
		Messages: messages,
	}
}
