// nolint
//
//lint:file-ignore U1000 ignore unused code, it's generated
package db

import (
	"time"
)

var Columns = struct {
	Article struct {
		ID, Title, Slug, Excerpt, Content, FeaturedImage, Status, PublishedAt, AuthorID, DeletedAt, CreatedAt, UpdatedAt string

		Author string
	}
	ArticleCategory struct {
		ArticleID, CategoryID string
	}
	ArticleInteraction struct {
		ID, UserID, ArticleID, Type, CreatedAt string
	}
	ArticleTag struct {
		ArticleID, TagID string
	}
	Author struct {
		ID, UserID, Bio, Website, SocialLinks, CreatedAt, UpdatedAt string

		User string
	}
	Category struct {
		ID, Name, Slug, Description, CreatedAt, UpdatedAt string
	}
	RevokedToken struct {
		JTI, ExpiresAt string
	}
	Subscriber struct {
		ID, Email, Name, Status, SubscribedAt, UnsubscribedAt, UnsubscribeToken, Preferences, CreatedAt, UpdatedAt string
	}
	Tag struct {
		ID, Name, Slug, CreatedAt, UpdatedAt string
	}
	User struct {
		ID, Name, Email, Password, Avatar, Role, CreatedAt, UpdatedAt string
	}
}{
	Article: struct {
		ID, Title, Slug, Excerpt, Content, FeaturedImage, Status, PublishedAt, AuthorID, DeletedAt, CreatedAt, UpdatedAt string

		Author string
	}{
		ID:            "id",
		Title:         "title",
		Slug:          "slug",
		Excerpt:       "excerpt",
		Content:       "content",
		FeaturedImage: "featured_image",
		Status:        "status",
		PublishedAt:   "published_at",
		AuthorID:      "author_id",
		DeletedAt:     "deleted_at",
		CreatedAt:     "created_at",
		UpdatedAt:     "updated_at",

		Author: "Author",
	},
	ArticleCategory: struct {
		ArticleID, CategoryID string
	}{
		ArticleID:  "article_id",
		CategoryID: "category_id",
	},
	ArticleInteraction: struct {
		ID, UserID, ArticleID, Type, CreatedAt string
	}{
		ID:        "id",
		UserID:    "user_id",
		ArticleID: "article_id",
		Type:      "type",
		CreatedAt: "created_at",
	},
	ArticleTag: struct {
		ArticleID, TagID string
	}{
		ArticleID: "article_id",
		TagID:     "tag_id",
	},
	Author: struct {
		ID, UserID, Bio, Website, SocialLinks, CreatedAt, UpdatedAt string

		User string
	}{
		ID:          "id",
		UserID:      "user_id",
		Bio:         "bio",
		Website:     "website",
		SocialLinks: "social_links",
		CreatedAt:   "created_at",
		UpdatedAt:   "updated_at",

		User: "User",
	},
	Category: struct {
		ID, Name, Slug, Description, CreatedAt, UpdatedAt string
	}{
		ID:          "id",
		Name:        "name",
		Slug:        "slug",
		Description: "description",
		CreatedAt:   "created_at",
		UpdatedAt:   "updated_at",
	},
	RevokedToken: struct {
		JTI, ExpiresAt string
	}{
		JTI:       "jti",
		ExpiresAt: "expires_at",
	},
	Subscriber: struct {
		ID, Email, Name, Status, SubscribedAt, UnsubscribedAt, UnsubscribeToken, Preferences, CreatedAt, UpdatedAt string
	}{
		ID:               "id",
		Email:            "email",
		Name:             "name",
		Status:           "status",
		SubscribedAt:     "subscribed_at",
		UnsubscribedAt:   "unsubscribed_at",
		UnsubscribeToken: "unsubscribe_token",
		Preferences:      "preferences",
		CreatedAt:        "created_at",
		UpdatedAt:        "updated_at",
	},
	Tag: struct {
		ID, Name, Slug, CreatedAt, UpdatedAt string
	}{
		ID:        "id",
		Name:      "name",
		Slug:      "slug",
		CreatedAt: "created_at",
		UpdatedAt: "updated_at",
	},
	User: struct {
		ID, Name, Email, Password, Avatar, Role, CreatedAt, UpdatedAt string
	}{
		ID:        "id",
		Name:      "name",
		Email:     "email",
		Password:  "password",
		Avatar:    "avatar",
		Role:      "role",
		CreatedAt: "created_at",
		UpdatedAt: "updated_at",
	},
}

var Tables = struct {
	Article struct {
		Name, Alias string
	}
	ArticleCategory struct {
		Name, Alias string
	}
	ArticleInteraction struct {
		Name, Alias string
	}
	ArticleTag struct {
		Name, Alias string
	}
	Author struct {
		Name, Alias string
	}
	Category struct {
		Name, Alias string
	}
	RevokedToken struct {
		Name, Alias string
	}
	Subscriber struct {
		Name, Alias string
	}
	Tag struct {
		Name, Alias string
	}
	User struct {
		Name, Alias string
	}
}{
	Article: struct {
		Name, Alias string
	}{
		Name:  "articles",
		Alias: "t",
	},
	ArticleCategory: struct {
		Name, Alias string
	}{
		Name:  "article_category",
		Alias: "t",
	},
	ArticleInteraction: struct {
		Name, Alias string
	}{
		Name:  "article_user_interactions",
		Alias: "t",
	},
	ArticleTag: struct {
		Name, Alias string
	}{
		Name:  "article_tag",
		Alias: "t",
	},
	Author: struct {
		Name, Alias string
	}{
		Name:  "authors",
		Alias: "t",
	},
	Category: struct {
		Name, Alias string
	}{
		Name:  "categories",
		Alias: "t",
	},
	RevokedToken: struct {
		Name, Alias string
	}{
		Name:  "revoked_tokens",
		Alias: "t",
	},
	Subscriber: struct {
		Name, Alias string
	}{
		Name:  "subscribers",
		Alias: "t",
	},
	Tag: struct {
		Name, Alias string
	}{
		Name:  "tags",
		Alias: "t",
	},
	User: struct {
		Name, Alias string
	}{
		Name:  "users",
		Alias: "t",
	},
}

type Article struct {
	tableName struct{} `pg:"articles,alias:t,discard_unknown_columns"`

	ID            int        `pg:"id,pk"`
	Title         string     `pg:"title,use_zero"`
	Slug          string     `pg:"slug,use_zero"`
	Excerpt       *string    `pg:"excerpt"`
	Content       string     `pg:"content,use_zero"`
	FeaturedImage *string    `pg:"featured_image"`
	Status        string     `pg:"status,use_zero"`
	PublishedAt   *time.Time `pg:"published_at"`
	AuthorID      *int       `pg:"author_id"`
	DeletedAt     time.Time  `pg:"deleted_at,soft_delete"`
	CreatedAt     time.Time  `pg:"created_at"`
	UpdatedAt     time.Time  `pg:"updated_at"`

	Author *Author `pg:"fk:author_id,rel:has-one"`
}

type ArticleCategory struct {
	tableName struct{} `pg:"article_category,alias:t,discard_unknown_columns"`

	ArticleID  int `pg:"article_id,pk"`
	CategoryID int `pg:"category_id,pk"`
}

type ArticleInteraction struct {
	tableName struct{} `pg:"article_user_interactions,alias:t,discard_unknown_columns"`

	ID        int       `pg:"id,pk"`
	UserID    int       `pg:"user_id,use_zero"`
	ArticleID int       `pg:"article_id,use_zero"`
	Type      string    `pg:"type,use_zero"`
	CreatedAt time.Time `pg:"created_at"`
}

type ArticleTag struct {
	tableName struct{} `pg:"article_tag,alias:t,discard_unknown_columns"`

	ArticleID int `pg:"article_id,pk"`
	TagID     int `pg:"tag_id,pk"`
}

type Author struct {
	tableName struct{} `pg:"authors,alias:t,discard_unknown_columns"`

	ID          int          `pg:"id,pk"`
	UserID      *int         `pg:"user_id"`
	Bio         *string      `pg:"bio"`
	Website     *string      `pg:"website"`
	SocialLinks []SocialLink `pg:"social_links"`
	CreatedAt   time.Time    `pg:"created_at"`
	UpdatedAt   time.Time    `pg:"updated_at"`

	User *User `pg:"fk:user_id,rel:has-one"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type Category struct {
	tableName struct{} `pg:"categories,alias:t,discard_unknown_columns"`

	ID          int       `pg:"id,pk"`
	Name        string    `pg:"name,use_zero"`
	Slug        string    `pg:"slug,use_zero"`
	Description *string   `pg:"description"`
	CreatedAt   time.Time `pg:"created_at"`
	UpdatedAt   time.Time `pg:"updated_at"`
}

type RevokedToken struct {
	tableName struct{} `pg:"revoked_tokens,alias:t,discard_unknown_columns"`

	JTI       string    `pg:"jti,pk"`
	ExpiresAt time.Time `pg:"expires_at,use_zero"`
}

type Subscriber struct {
	tableName struct{} `pg:"subscribers,alias:t,discard_unknown_columns"`

	ID               int                    `pg:"id,pk"`
	Email            string                 `pg:"email,use_zero"`
	Name             *string                `pg:"name"`
	Status           string                 `pg:"status,use_zero"`
	SubscribedAt     time.Time              `pg:"subscribed_at,use_zero"`
	UnsubscribedAt   *time.Time             `pg:"unsubscribed_at"`
	UnsubscribeToken string                 `pg:"unsubscribe_token,use_zero"`
	Preferences      map[string]interface{} `pg:"preferences"`
	CreatedAt        time.Time              `pg:"created_at"`
	UpdatedAt        time.Time              `pg:"updated_at"`
}

type Tag struct {
	tableName struct{} `pg:"tags,alias:t,discard_unknown_columns"`

	ID        int       `pg:"id,pk"`
	Name      string    `pg:"name,use_zero"`
	Slug      string    `pg:"slug,use_zero"`
	CreatedAt time.Time `pg:"created_at"`
	UpdatedAt time.Time `pg:"updated_at"`
}

type User struct {
	tableName struct{} `pg:"users,alias:t,discard_unknown_columns"`

	ID        int       `pg:"id,pk"`
	Name      string    `pg:"name,use_zero"`
	Email     string    `pg:"email,use_zero"`
	Password  string    `pg:"password,use_zero"`
	Avatar    *string   `pg:"avatar"`
	Role      string    `pg:"role,use_zero"`
	CreatedAt time.Time `pg:"created_at"`
	UpdatedAt time.Time `pg:"updated_at"`
}
