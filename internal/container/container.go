package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/config"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/internal/viewguard"
	"github.com/corpboard/corpboard/pkg/helpers"
	"github.com/corpboard/corpboard/pkg/mailer"
	"github.com/corpboard/corpboard/pkg/storage"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	objectStore storage.ObjectStore

	jwtManager *helpers.JWTManager

	mailgunClient *mailer.Mailgun
	rabbitPub     *helpers.RabbitPublisher
	esClient      *elasticsearch.Client

	repoSet  repository.Set
	txRunner repository.TxRunner
	guard    *viewguard.Guard
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetObjectStore(s storage.ObjectStore)    { objectStore = s }
func GetObjectStore() storage.ObjectStore     { return objectStore }
func SetMailgun(m *mailer.Mailgun)            { mailgunClient = m }
func GetMailgun() *mailer.Mailgun             { return mailgunClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

func SetRepos(s repository.Set)         { repoSet = s }
func GetRepos() repository.Set          { return repoSet }
func SetTxRunner(t repository.TxRunner) { txRunner = t }
func GetTxRunner() repository.TxRunner  { return txRunner }
func SetViewGuard(g *viewguard.Guard)   { guard = g }
func GetViewGuard() *viewguard.Guard    { return guard }
