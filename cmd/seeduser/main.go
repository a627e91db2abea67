// cmd/seeduser/main.go: Crea o actualiza un usuario administrador.
// Uso: go run ./cmd/seeduser -rut 12.345.678-5 -password secreto -nombre "Admin"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"tiendaropa/internal/config"
	"tiendaropa/internal/infra"
	"tiendaropa/internal/logger"
	"tiendaropa/internal/model"
	"tiendaropa/internal/rut"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	rutFlag := flag.String("rut", "", "RUT del usuario, con digito verificador")
	password := flag.String("password", "", "password (min 8 caracteres)")
	nombre := flag.String("nombre", "Administrador", "nombre visible")
	email := flag.String("email", "", "email opcional")
	rol := flag.String("rol", model.RolAdministrador, "administrador | vendedor | bodeguero")
	flag.Parse()

	logger.Setup("development", "info")

	cuerpo, err := rut.Resolver(*rutFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rut invalido: %v\n", err)
		os.Exit(2)
	}
	if len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "el password debe tener al menos 8 caracteres")
		os.Exit(2)
	}
	switch *rol {
	case model.RolAdministrador, model.RolVendedor, model.RolBodeguero:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido %q\n", *rol)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBAutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	u := model.Usuario{
		RUT:          cuerpo,
		Nombre:       *nombre,
		PasswordHash: string(hash),
		Rol:          *rol,
		Activo:       true,
	}
	if *email != "" {
		u.Email = email
	}
	err = db.WithContext(context.Background()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rut"}},
			DoUpdates: clause.AssignmentColumns([]string{"nombre", "email", "password_hash", "rol", "activo", "updated_at"}),
		}).
		Create(&u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("upsert usuario")
	}
	fmt.Printf("Usuario %s (%s) creado/actualizado\n", rut.MustFormatear(cuerpo), *rol)
}
