package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Practices   *PracticeRepository
	Packages    *PackageRepository
	Commitments *CommitmentStore
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Practices:   NewPracticeRepository(database),
		Packages:    NewPackageRepository(database),
		Commitments: NewCommitmentStore(database),
	}
}
