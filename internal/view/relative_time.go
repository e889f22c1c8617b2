// Package view はレンダラーに渡すビューモデルと表示用フォーマットを提供する。
package view

import (
	"fmt"
	"time"
)

// RelativeTime はメッセージ送信時刻を人間向けの相対表現に整形する。
// 表示時点のnowとの差分から計算するため、同じメッセージでも
// 閲覧するタイミングによって表示が変わる。
// 7日を超えた場合は絶対日付にフォールバックする。
func RelativeTime(now, sentAt time.Time) string {
	diff := now.Sub(sentAt)

	// クロックスキュー等で未来の時刻になっている場合は「たった今」として扱う
	if diff < time.Minute {
		return "たった今"
	}

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%d分前", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d時間前", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "昨日"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d日前", int(diff.Hours()/24))
	default:
		return sentAt.Local().Format("2006/01/02")
	}
}
