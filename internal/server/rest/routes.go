package rest

import "github.com/gin-gonic/gin"

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/ping", s.ping)

	api := r.Group("/", s.dbSession())
	api.POST("/login/token", s.login)

	users := api.Group("/users")
	{
		users.GET("/", s.listUsers)
		users.POST("/register", s.register)

		me := users.Group("/me", s.authenticate())
		{
			me.GET("", s.me)
			me.GET("/favorites", s.listFavorites)
			me.POST("/favorites", s.addFavorite)
			me.GET("/image", s.imageURL)
			me.POST("/image", s.requestImageUpload)
		}

		users.GET("/:id", s.getUser)
		users.PUT("/:id", s.updateUser)
	}
}
