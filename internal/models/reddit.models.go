package models

import "encoding/json"

// RedditThreadResponse is the two-listing array returned by
// /comments/{id}.json: the submission first, its comments second.
type RedditThreadResponse []RedditListing

type RedditListing struct {
	Kind string            `json:"kind"`
	Data RedditListingData `json:"data"`
}

type RedditListingData struct {
	After    string           `json:"after"`
	Children []RedditAPIChild `json:"children"`
}

type RedditAPIChild struct {
	Kind string             `json:"kind"`
	Data RedditAPIChildData `json:"data"`
}

type RedditAPIChildData struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Subreddit   string      `json:"subreddit"`
	Author      string      `json:"author"`
	Title       string      `json:"title"`
	Selftext    string      `json:"selftext"`
	Body        string      `json:"body"`
	Score       json.Number `json:"score"`
	Ups         json.Number `json:"ups"`
	NumComments json.Number `json:"num_comments"`
	CreatedUTC  json.Number `json:"created_utc"`
	Permalink   string      `json:"permalink"`
}
