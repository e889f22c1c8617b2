package view

import (
	"time"

	"github.com/hitoshi/chatman/internal/model"
)

// MessageView はレンダラーに渡すメッセージのビューモデル。
// 保存済みレコードとは別の、表示用に整形済みのデータ構造である。
type MessageView struct {
	ID               string
	ChannelName      string
	Content          string
	SentAt           string // 相対時刻表現（例: "3分前"）
	AuthorFirstName  string
	AuthorLastName   string
	AuthorPictureURL string
}

// NewMessageView はメッセージと著者からビューモデルを構築する。
// 送信時刻は表示時点のnowを基準に相対表現へ変換される。
func NewMessageView(message *model.Message, author *model.User, now time.Time) MessageView {
	return MessageView{
		ID:               message.ID,
		ChannelName:      message.ChannelName,
		Content:          message.Content,
		SentAt:           RelativeTime(now, message.SentAt),
		AuthorFirstName:  author.FirstName,
		AuthorLastName:   author.LastName,
		AuthorPictureURL: author.PictureURL,
	}
}
