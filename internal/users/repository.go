package users

import (
	"gorm.io/gorm"
)

type Repository interface {
	BuscarPorEmail(db *gorm.DB, email string) (*User, error)
	BuscarPorID(db *gorm.DB, id string) (*User, error)
	ListarTodos(db *gorm.DB) ([]User, error)
	Salvar(db *gorm.DB, u *User) error
	Atualizar(db *gorm.DB, id string, novosDados *User) error
	Deletar(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (*User, error) {
	var u User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*User, error) {
	var u User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]User, error) {
	var us []User
	err := db.Find(&us).Error
	return us, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, u *User) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, id string, novosDados *User) error {
	var existente User
	if err := db.First(&existente, "id = ?", id).Error; err != nil {
		return err
	}

	existente.Name = novosDados.Name
	existente.Role = novosDados.Role
	existente.Permissions = novosDados.Permissions
	existente.Avatar = novosDados.Avatar

	return db.Save(&existente).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id string) error {
	return db.Delete(&User{}, "id = ?", id).Error
}
