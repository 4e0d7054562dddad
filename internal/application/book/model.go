package book

import (
	"fmt"
	"time"

	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
)

// BookModel 图书对外表示
type BookModel struct {
	ID                      uint   `json:"id"`
	Title                   string `json:"title"`
	Author                  string `json:"author"`
	GenreID                 uint   `json:"genre_id"`
	PublishingHouse         string `json:"publishing_house"`
	Year                    int    `json:"year"`
	StatusID                uint8  `json:"status_id"`
	TitleAttachmentID       *uint  `json:"title_attachment_id"`
	AdditionalAttachmentIDs []uint `json:"additional_attachment_ids"`
	City                    string `json:"city"`
}

func toBookModel(b *book.Book, ownerCity string) BookModel {
	return BookModel{
		ID:                      b.ID,
		Title:                   b.Title,
		Author:                  b.Author,
		GenreID:                 b.GenreID,
		PublishingHouse:         b.PublishingHouse,
		Year:                    b.Year,
		StatusID:                uint8(b.Status),
		TitleAttachmentID:       b.TitleAttachmentID,
		AdditionalAttachmentIDs: b.AdditionalAttachmentIDs(),
		City:                    ownerCity,
	}
}

// toBookModels owners中找不到所有者时城市为空
func toBookModels(books []*book.Book, owners map[uint]*user.User) []BookModel {
	list := make([]BookModel, 0, len(books))
	for _, b := range books {
		city := ""
		if owner, ok := owners[b.OwnerID]; ok {
			city = owner.City
		}
		list = append(list, toBookModel(b, city))
	}
	return list
}

// OwnerProfile 图书所有者的公开资料
type OwnerProfile struct {
	ID        uint   `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	City      string `json:"city"`
	AboutMe   string `json:"about_me"`
	LoginDate string `json:"login_date,omitempty"` // 按请求的时区格式化，从未登录时为空
}

func toOwnerProfile(u *user.User, loc *time.Location) OwnerProfile {
	p := OwnerProfile{
		ID:      u.ID,
		Login:   u.Login,
		Name:    u.Name,
		City:    u.City,
		AboutMe: u.AboutMe,
	}
	if u.LoginDate > 0 {
		p.LoginDate = time.Unix(u.LoginDate, 0).In(loc).Format("2006-01-02 15:04:05")
	}
	return p
}

// zoneLocation zoneID为相对UTC的小时偏移
func zoneLocation(zoneID int) *time.Location {
	if zoneID == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", zoneID), zoneID*3600)
}

// GenreItem 图书类型
type GenreItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
