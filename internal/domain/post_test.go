package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		owner    uuid.UUID
		imageURL string
		caption  string
		wantErr  error
	}{
		{"valid", owner, " https://img.example.com/a.jpg ", "sunset", nil},
		{"empty caption", owner, "a.jpg", "", nil},
		{"missing owner", uuid.Nil, "a.jpg", "", ErrEmptyUserID},
		{"blank image", owner, "   ", "", ErrEmptyImageURL},
		{"caption too long", owner, "a.jpg", strings.Repeat("é", MaxCaptionLength+1), ErrCaptionTooLong},
		{"image reference too long", owner, strings.Repeat("x", MaxReferenceLength+1), "", ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			post, err := NewPost(tc.owner, tc.imageURL, tc.caption)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, post)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, post.ID)
			assert.Equal(t, strings.TrimSpace(tc.imageURL), post.ImageURL)
			assert.Equal(t, 0, post.Likes.Len())
			assert.Equal(t, PostSummary{ID: post.ID, ImageURL: post.ImageURL}, post.Summary())
		})
	}
}

func TestFeedPostJSON(t *testing.T) {
	post, err := NewPost(uuid.New(), "a.jpg", "hi")
	require.NoError(t, err)
	liker := uuid.New()
	post.Likes.Add(liker)

	data, err := json.Marshal(FeedPost{
		Post:     post,
		Author:   UserSummary{ID: post.UserID, Username: "alice"},
		Comments: []CommentView{},
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	// Post fields are flattened next to the resolved author.
	assert.Equal(t, post.ID.String(), got["id"])
	assert.Equal(t, "hi", got["caption"])
	assert.Equal(t, []interface{}{liker.String()}, got["likes"])
	assert.Equal(t, "alice", got["author"].(map[string]interface{})["username"])
	assert.Equal(t, []interface{}{}, got["comments"])
}

func TestNewComment(t *testing.T) {
	postID, author := uuid.New(), uuid.New()

	c, err := NewComment(postID, author, "  nice shot  ")
	require.NoError(t, err)
	assert.Equal(t, "nice shot", c.Content)
	assert.Equal(t, postID, c.PostID)

	_, err = NewComment(postID, author, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewComment(uuid.Nil, author, "hi")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewComment(postID, author, strings.Repeat("a", MaxCommentLength+1))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewProfileUser(t *testing.T) {
	u, err := NewUser("alice", "alice@example.com", "password123")
	require.NoError(t, err)
	u.HashedPassword = "hash"

	view := NewProfileUser(u, nil)
	assert.NotNil(t, view.Friends)
	assert.Empty(t, view.Friends)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")
	assert.Contains(t, string(data), `"friends":[]`)
}
