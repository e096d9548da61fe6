package models

// All lists every table model, in dependency order, for AutoMigrate in tests and tooling.
func All() []interface{} {
	return []interface{}{
		&User{},
		&CreatorProfile{},
		&ModelTag{},
		&ModelAvailability{},
		&Post{},
		&PostTag{},
		&Like{},
		&Comment{},
		&Favorite{},
		&Review{},
		&Subscription{},
		&Wallet{},
		&Transaction{},
		&Conversation{},
		&Message{},
	}
}
