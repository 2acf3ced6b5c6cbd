package repository

import (
	"testing"
)

// 各Postgresリポジトリが対応するインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

func TestPostgresIdentityRepo_ImplementsInterface(t *testing.T) {
	var _ IdentityRepository = (*PostgresIdentityRepo)(nil)
}

func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

func TestPostgresProjectRepo_ImplementsInterface(t *testing.T) {
	var _ ProjectRepository = (*PostgresProjectRepo)(nil)
}

func TestPostgresTaskRepo_ImplementsInterface(t *testing.T) {
	var _ TaskRepository = (*PostgresTaskRepo)(nil)
}

func TestPostgresTravelRepo_ImplementsInterface(t *testing.T) {
	var _ TravelRepository = (*PostgresTravelRepo)(nil)
}

// 各コンストラクタが非nilのリポジトリを返すことを検証
func TestNewPostgresRepos_Initialize(t *testing.T) {
	if NewPostgresUserRepo(nil) == nil {
		t.Error("NewPostgresUserRepo returned nil")
	}
	if NewPostgresIdentityRepo(nil) == nil {
		t.Error("NewPostgresIdentityRepo returned nil")
	}
	if NewPostgresSessionRepo(nil) == nil {
		t.Error("NewPostgresSessionRepo returned nil")
	}
	if NewPostgresProjectRepo(nil) == nil {
		t.Error("NewPostgresProjectRepo returned nil")
	}
	if NewPostgresTaskRepo(nil) == nil {
		t.Error("NewPostgresTaskRepo returned nil")
	}
	if NewPostgresTravelRepo(nil) == nil {
		t.Error("NewPostgresTravelRepo returned nil")
	}
}
