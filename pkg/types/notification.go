package types

import "fmt"

// NotificationType is the closed enumeration of notification kinds.
type NotificationType string

const (
	NotificationTypeNewPost                NotificationType = "new_post"
	NotificationTypePostComment            NotificationType = "post_comment"
	NotificationTypeCommentReply           NotificationType = "comment_reply"
	NotificationTypePostLike               NotificationType = "post_like"
	NotificationTypeCommentLike            NotificationType = "comment_like"
	NotificationTypeMention                NotificationType = "mention"
	NotificationTypeNewFollower            NotificationType = "new_follower"
	NotificationTypeCommunityInvite        NotificationType = "community_invite"
	NotificationTypeCommunityJoinRequest   NotificationType = "community_join_request"
	NotificationTypeCommunityJoinApproved  NotificationType = "community_join_approved"
	NotificationTypeCommunityJoinRejected  NotificationType = "community_join_rejected"
	NotificationTypeCommunityRoleChanged   NotificationType = "community_role_changed"
	NotificationTypeNewMember              NotificationType = "new_member"
	NotificationTypeCoursePublished        NotificationType = "course_published"
	NotificationTypeCourseEnrolled         NotificationType = "course_enrolled"
	NotificationTypeLessonPublished        NotificationType = "lesson_published"
	NotificationTypeCourseCompleted        NotificationType = "course_completed"
	NotificationTypeEventCreated           NotificationType = "event_created"
	NotificationTypeEventReminder          NotificationType = "event_reminder"
	NotificationTypeEventCanceled          NotificationType = "event_canceled"
	NotificationTypeChatMessage            NotificationType = "chat_message"
	NotificationTypeChatMention            NotificationType = "chat_mention"
	NotificationTypePaymentSucceeded       NotificationType = "payment_succeeded"
	NotificationTypePaymentFailed          NotificationType = "payment_failed"
	NotificationTypeSubscriptionRenewed    NotificationType = "subscription_renewed"
	NotificationTypeSubscriptionCanceled   NotificationType = "subscription_canceled"
	NotificationTypeSubscriptionExpiring   NotificationType = "subscription_expiring"
	NotificationTypeLeaderboardRankChanged NotificationType = "leaderboard_rank_changed"
	NotificationTypeLevelUp                NotificationType = "level_up"
	NotificationTypeSystemAnnouncement     NotificationType = "system_announcement"
)

// NotificationTypes lists every NotificationType in display order.
var NotificationTypes = []NotificationType{
	NotificationTypeNewPost,
	NotificationTypePostComment,
	NotificationTypeCommentReply,
	NotificationTypePostLike,
	NotificationTypeCommentLike,
	NotificationTypeMention,
	NotificationTypeNewFollower,
	NotificationTypeCommunityInvite,
	NotificationTypeCommunityJoinRequest,
	NotificationTypeCommunityJoinApproved,
	NotificationTypeCommunityJoinRejected,
	NotificationTypeCommunityRoleChanged,
	NotificationTypeNewMember,
	NotificationTypeCoursePublished,
	NotificationTypeCourseEnrolled,
	NotificationTypeLessonPublished,
	NotificationTypeCourseCompleted,
	NotificationTypeEventCreated,
	NotificationTypeEventReminder,
	NotificationTypeEventCanceled,
	NotificationTypeChatMessage,
	NotificationTypeChatMention,
	NotificationTypePaymentSucceeded,
	NotificationTypePaymentFailed,
	NotificationTypeSubscriptionRenewed,
	NotificationTypeSubscriptionCanceled,
	NotificationTypeSubscriptionExpiring,
	NotificationTypeLeaderboardRankChanged,
	NotificationTypeLevelUp,
	NotificationTypeSystemAnnouncement,
}

var notificationTypeSet = func() map[NotificationType]struct{} {
	m := make(map[NotificationType]struct{}, len(NotificationTypes))
	for _, t := range NotificationTypes {
		m[t] = struct{}{}
	}
	return m
}()

func (t NotificationType) Valid() bool {
	_, ok := notificationTypeSet[t]
	return ok
}

func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid notification type: %q", s)
	}
	return t, nil
}

type DigestFrequency string

const (
	DigestFrequencyInstant DigestFrequency = "instant"
	DigestFrequencyDaily   DigestFrequency = "daily"
	DigestFrequencyWeekly  DigestFrequency = "weekly"
	DigestFrequencyNever   DigestFrequency = "never"
)

func (d DigestFrequency) Valid() bool {
	switch d {
	case DigestFrequencyInstant, DigestFrequencyDaily, DigestFrequencyWeekly, DigestFrequencyNever:
		return true
	}
	return false
}
