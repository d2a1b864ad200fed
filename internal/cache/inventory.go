package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	PostKeyPrefix        = "post:%d"
	AuthorPostsKeyPrefix = "author:%d:posts"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func AuthorPostsKey(authorID uint) string {
	return fmt.Sprintf(AuthorPostsKeyPrefix, authorID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost clears both the post entry and the author's post listing,
// which embeds the post's current field values.
func InvalidatePost(ctx context.Context, postID, authorID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, AuthorPostsKey(authorID))
}
