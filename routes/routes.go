package routes

import (
	"github.com/AndyyVasquez/nutweb-sub000/controllers"
	"github.com/AndyyVasquez/nutweb-sub000/middlewares"
	"github.com/AndyyVasquez/nutweb-sub000/models"
	"github.com/AndyyVasquez/nutweb-sub000/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, hub *services.DeviceHub) *gin.Engine {
	r := gin.Default()

	auth := services.NewAuthService(db)
	subs := services.NewSubscriptionService(db)
	payments := services.NewPaymentService(db, subs, hub,
		services.NewPayPalService(),
		services.NewMercadoPagoService(),
	)
	diets := services.NewDietService(db)

	ac := controllers.NewAuthController(auth)
	ad := controllers.NewAdminController(auth)
	pc := controllers.NewPaymentController(payments)
	sc := controllers.NewSubscriptionController(subs)
	cc := controllers.NewClientController(subs)
	dc := controllers.NewDietController(diets)
	rc := controllers.NewRealtimeController(hub)

	// Public auth routes
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register/client", ac.RegisterClient)
		authGroup.POST("/register/nutritionist", ac.RegisterNutritionist)
		authGroup.POST("/login", ac.Login)
		authGroup.POST("/login/federated", ac.LoginFederated)
	}
	r.POST("/auth/logout", middlewares.SessionMiddleware(auth), ac.Logout)

	// Payment flow. Creation and confirmation are reachable before the payer
	// holds a session: access is what the payment buys.
	pay := r.Group("/payments")
	{
		pay.POST("/orders", pc.CreateOrder)
		pay.POST("/paypal/capture", pc.CapturePayPal)
		pay.POST("/mercadopago/webhook", pc.MercadoPagoWebhook)
		pay.GET("/mercadopago/success", pc.MercadoPagoSuccess)
		pay.GET("/mercadopago/failure", pc.MercadoPagoFailure)
		pay.GET("/mercadopago/pending", pc.MercadoPagoPending)
	}
	r.POST("/subscription/redeem", sc.Redeem)

	// Protected client routes
	client := r.Group("/client")
	client.Use(middlewares.SessionMiddleware(auth, models.RoleClient))
	{
		client.GET("/profile", cc.Profile)
		client.GET("/devices/ws", rc.DevicesWS)
	}

	// Protected nutritionist routes
	nutri := r.Group("/nutritionist")
	nutri.Use(middlewares.SessionMiddleware(auth, models.RoleNutritionist))
	{
		nutri.POST("/diets", dc.SaveDiet)
		nutri.GET("/clients/:id/diet", dc.CurrentDiet)
	}

	// Protected admin routes
	admin := r.Group("/admin")
	admin.Use(middlewares.SessionMiddleware(auth, models.RoleAdmin))
	{
		admin.GET("/nutritionists/pending", ad.PendingNutritionists)
		admin.PUT("/nutritionists/:id/review", ad.ReviewNutritionist)
	}

	return r
}
