package gallery

const unsplash = "https://images.unsplash.com/"

func unsplashImage(id, photo, title, description string) Image {
	return Image{
		ID:          id,
		URL:         unsplash + photo + "?w=800",
		Title:       title,
		Description: description,
	}
}

// Sample returns the built-in demonstration collection. Every call returns a
// fresh value, so each one has its own identity.
func Sample() *Collection {
	return &Collection{
		Name: "sample",
		Groups: []Group{
			{
				ID:   "group-1",
				Name: "Landscapes",
				Images: []Image{
					unsplashImage("img-1-1", "photo-1506905925346-21bda4d32df4", "Mountain Sunrise", "A mountain range waking up in the morning light"),
					unsplashImage("img-1-2", "photo-1469474968028-56623f02e42e", "Forest Path", "Sunlight falling through the trees"),
					unsplashImage("img-1-3", "photo-1470071459604-3b5ec3a7fe05", "Lake and Hills", "Distant hills mirrored in a calm lake"),
					unsplashImage("img-1-4", "photo-1441974231531-c6227db76b6e", "Green Forest", "A dense forest full of life"),
				},
			},
			{
				ID:   "group-2",
				Name: "City Architecture",
				Images: []Image{
					unsplashImage("img-2-1", "photo-1449824913935-59a10b8d2000", "Modern City", "A skyline of towers"),
					unsplashImage("img-2-2", "photo-1480714378408-67cf0d13bc1b", "Street at Night", "Neon lights over a busy street"),
					unsplashImage("img-2-3", "photo-1477959858617-67f85cf4f1df", "Classical Building", "Architecture with a long history"),
					unsplashImage("img-2-4", "photo-1486718448742-163732cd1544", "Skyscraper", "Modern building at its extreme"),
					unsplashImage("img-2-5", "photo-1514565131-fce0801e5785", "City Square", "An open plaza in the city"),
				},
			},
			{
				ID:   "group-3",
				Name: "Ocean",
				Images: []Image{
					unsplashImage("img-3-1", "photo-1505142468610-359e7d316be0", "Blue Sea", "Blue water under a blue sky"),
					unsplashImage("img-3-2", "photo-1439405326854-014607f694d7", "Beach Sunset", "The sun setting over the sand"),
					unsplashImage("img-3-3", "photo-1484821582734-6c6c9f99a672", "Breaking Waves", "Waves hitting the shore"),
				},
			},
			{
				ID:   "group-4",
				Name: "Wildlife",
				Images: []Image{
					unsplashImage("img-4-1", "photo-1474511320723-9a56873867b5", "Wild Fox", "A fox in the wild"),
					unsplashImage("img-4-2", "photo-1437622368342-7a3d73a34c8f", "King of the Jungle", ""),
					unsplashImage("img-4-3", "photo-1446329813274-7c9036bd9a1f", "Free Flight", ""),
					unsplashImage("img-4-4", "photo-1484406566174-9da000fda645", "Kitten", ""),
				},
			},
		},
	}
}
