package redis_client

import (
	"context"
	"strconv"

	"github.com/nextride/nextride/pkg/util"
	"github.com/redis/go-redis/v9"
)

// Client is nil unless NEXTRIDE_REDIS_ADDRESS is configured. Redis is
// optional - a single instance runs fine on the in-memory cache, Redis only
// lets several instances share resolved boards.
var Client *redis.Client

const defaultConnectionPassword = ""
const defaultDatabase = 0

func Connect() error {
	env := util.GetEnvironmentVariables()

	address := env["NEXTRIDE_REDIS_ADDRESS"]
	if address == "" {
		return nil
	}

	password := defaultConnectionPassword
	database := defaultDatabase

	if env["NEXTRIDE_REDIS_PASSWORD"] != "" {
		password = env["NEXTRIDE_REDIS_PASSWORD"]
	}

	if env["NEXTRIDE_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["NEXTRIDE_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	statusCmd := Client.Ping(context.Background())

	return statusCmd.Err()
}
