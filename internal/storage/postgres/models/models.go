package models

import "cinelog/proj/internal/storage/postgres"

type Models struct {
	User       *UserModel
	Collection *CollectionModel
	Review     *ReviewModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		User:       &UserModel{db.Conn},
		Collection: &CollectionModel{db.Conn},
		Review:     &ReviewModel{db.Conn},
	}
}
