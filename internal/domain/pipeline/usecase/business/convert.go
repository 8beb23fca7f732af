package business

import (
	dispatchentities "github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/entities"
)

const menuImageType = "image/jpeg"

func commandOf(r *run) dispatchentities.Command {
	return dispatchentities.Command{
		Name:     r.command,
		Args:     r.args,
		Message:  r.msg,
		Settings: r.settings,
	}
}

func menuImage(url, caption string) *dispatchentities.Result {
	return &dispatchentities.Result{
		Success:   true,
		MediaURL:  url,
		MediaType: menuImageType,
		Caption:   caption,
		Filename:  "menu.jpg",
	}
}
