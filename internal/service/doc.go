// Package service contains the application use cases: the friend graph,
// likes and comments, notifications, profiles and the post feed. Each
// service coordinates the stores in internal/store and applies the rules
// that span more than one entity.
//
// Key components:
//
// 1. FriendService:
//   - Writes both directions of a friendship in one transaction
//   - Sends a follow notification to each side after commit
//
// 2. EngagementService:
//   - Adds and removes likes, stores comments
//   - Notifies the post owner of likes and comments, never of unlikes
//
// 3. NotificationService:
//   - Appends and lists notifications with senders and posts resolved
//   - Implements Notifier; a failed append is retried through the task
//     queue and finally dropped, never surfaced to the caller
//
// 4. ProfileService and PostService:
//   - Assemble credential-free profiles and the paged feed
//
// Errors:
//
// Conflicts (already friends, not liked, ...) wrap ErrConflict. Missing
// entities surface as the store's not-found errors unchanged. Anything
// unexpected is wrapped in a ServiceError naming the failed operation.
package service
