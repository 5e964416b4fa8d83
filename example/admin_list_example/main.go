package main

import (
	"context"
	"time"

	"AdminFilter/config"
	"AdminFilter/example/admin_list_example/model"
	"AdminFilter/http_router"
	"AdminFilter/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 运行方式：
//
//	ADMIN_DB_DRIVER=sqlite ADMIN_DB_PATH=admin.db go run ./example/admin_list_example
//
// 查询示例：
//
//	curl -X POST localhost:8080/admin/posts/query \
//	  -d '{"filters": {"createdAt": {"type": 1, "value": "2020-11-08"}, "tags": {"type": 2, "value": [1]}}}'
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := cfg.NewLogger()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	// 数据库
	dbManager, err := service.InitDB(cfg.DB, log)
	if err != nil {
		log.Fatal(err)
	}
	defer dbManager.Close()

	// Redis（可选）
	redisManager, err := service.InitRedis(cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, list cache disabled")
	}
	if redisManager != nil {
		defer redisManager.Close()
	}

	postService := service.NewServiceManager(model.Post{}, model.NewPostDatagrid(loc)).
		WithLogger(log).
		WithCache(redisManager, cfg.CacheTTL)

	ctx := context.Background()
	if err := service.GetDB().WithContext(ctx).AutoMigrate(&model.Author{}, &model.Tag{}); err != nil {
		log.Fatal(err)
	}
	if err := postService.Create(ctx, nil); err != nil {
		log.Fatal(err)
	}
	if err := seed(ctx); err != nil {
		log.Fatal(err)
	}

	r := gin.Default()
	admin := r.Group("/admin")
	http_router.NewHTTPRouterManager(postService).RegisterListRoutes(admin, "/posts", cfg.PageSize, "Author", "Tags")

	log.WithField("addr", cfg.HTTPAddr).Info("admin list server started")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}

// seed 空库时写入示例数据
func seed(ctx context.Context) error {
	db := service.GetDB().WithContext(ctx)

	var count int64
	if err := db.Model(&model.Post{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	alice := model.Author{Name: "alice"}
	bob := model.Author{Name: "bob"}
	if err := db.Create(&[]*model.Author{&alice, &bob}).Error; err != nil {
		return err
	}
	news := model.Tag{Name: "news"}
	sports := model.Tag{Name: "sports"}
	if err := db.Create(&[]*model.Tag{&news, &sports}).Error; err != nil {
		return err
	}

	published := time.Date(2020, 11, 8, 12, 0, 0, 0, time.UTC)
	posts := []model.Post{
		{Title: "first", CreatedAt: time.Date(2020, 11, 7, 10, 0, 0, 0, time.UTC), AuthorID: &alice.ID, Tags: []model.Tag{news}},
		{Title: "second", CreatedAt: time.Date(2020, 11, 8, 9, 0, 0, 0, time.UTC), PublishedAt: &published, AuthorID: &bob.ID, Tags: []model.Tag{news, sports}},
		{Title: "third", CreatedAt: time.Date(2020, 11, 9, 9, 0, 0, 0, time.UTC)},
	}
	return db.Create(&posts).Error
}
