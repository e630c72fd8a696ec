package cache

import (
	"time"

	"circle_pipeline/internal/model"
)

// CurrentUserPatch 当前用户的增量更新
// nil 字段表示本次未携带，不覆盖已有值
type CurrentUserPatch struct {
	ID                             string
	DisplayName                    *string
	Username                       *string
	Status                         *string
	StatusDescription              *string
	Bio                            *string
	UserIcon                       *string
	ProfilePicOverride             *string
	ProfilePicOverrideThumbnail    *string
	CurrentAvatar                  *string
	CurrentAvatarImageURL          *string
	CurrentAvatarThumbnailImageURL *string
	FallbackAvatar                 *string
	Tags                           []string
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// apply 合并到缓存条目，存在完整资料时同步写入
func (p *CurrentUserPatch) apply(u *CachedUser, now time.Time) {
	assign(&u.DisplayName, p.DisplayName)
	// 空 username 视为未携带
	if p.Username != nil && *p.Username != "" {
		u.Username = *p.Username
	}
	if p.Status != nil {
		u.Status = model.ParseUserStatus(*p.Status)
	}
	assign(&u.StatusDescription, p.StatusDescription)
	assign(&u.Bio, p.Bio)
	assign(&u.UserIcon, p.UserIcon)
	assign(&u.ProfilePicOverride, p.ProfilePicOverride)
	assign(&u.ProfilePicOverrideThumbnail, p.ProfilePicOverrideThumbnail)
	assign(&u.CurrentAvatarImageURL, p.CurrentAvatarImageURL)
	assign(&u.CurrentAvatarThumbnailImageURL, p.CurrentAvatarThumbnailImageURL)
	u.Relationship = RelationshipCurrentUser
	u.LastUpdated = now

	full := u.FullUser
	if full == nil {
		return
	}
	assign(&full.DisplayName, p.DisplayName)
	if p.Username != nil && *p.Username != "" {
		full.Username = *p.Username
	}
	if p.Status != nil {
		full.Status = model.ParseUserStatus(*p.Status)
	}
	assign(&full.StatusDescription, p.StatusDescription)
	assign(&full.Bio, p.Bio)
	assign(&full.UserIcon, p.UserIcon)
	assign(&full.ProfilePicOverride, p.ProfilePicOverride)
	assign(&full.ProfilePicOverrideThumbnail, p.ProfilePicOverrideThumbnail)
	assign(&full.CurrentAvatar, p.CurrentAvatar)
	assign(&full.CurrentAvatarImageURL, p.CurrentAvatarImageURL)
	assign(&full.CurrentAvatarThumbnailImageURL, p.CurrentAvatarThumbnailImageURL)
	assign(&full.FallbackAvatar, p.FallbackAvatar)
	if p.Tags != nil {
		full.Tags = append([]string(nil), p.Tags...)
	}
}
