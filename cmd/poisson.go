/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/quadfem/fequad/geometry2D"
	"github.com/quadfem/fequad/model_problems/Poisson2D"
)

type ModelPoisson struct {
	ICFile  string
	Profile bool
}

type InputParameters struct {
	Title            string  `yaml:"Title"`
	NX               int     `yaml:"NX"`
	NY               int     `yaml:"NY"`
	QuadratureOrder  int     `yaml:"QuadratureOrder"`
	HangingNodeMesh  bool    `yaml:"HangingNodeMesh"`
	BoundaryConstant float64 `yaml:"BoundaryConstant"`
	BoundarySlopeX   float64 `yaml:"BoundarySlopeX"`
	BoundarySlopeY   float64 `yaml:"BoundarySlopeY"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d x %d]\t\t= Mesh\n", ip.NX, ip.NY)
	fmt.Printf("[%d]\t\t\t= Quadrature Order\n", ip.QuadratureOrder)
	fmt.Printf("[%v]\t\t\t= Hanging Node Mesh\n", ip.HangingNodeMesh)
	fmt.Printf("u = %v + %v*x + %v*y\t= Boundary Data\n",
		ip.BoundaryConstant, ip.BoundarySlopeX, ip.BoundarySlopeY)
}

// poissonCmd represents the poisson command
var poissonCmd = &cobra.Command{
	Use:   "poisson",
	Short: "Solve the Laplace model problem with the P1 nonconforming element",
	Long: `Solve the Laplace model problem with the P1 nonconforming element
on a Cartesian mesh, or on the hanging node example mesh, with affine
Dirichlet boundary data`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		mp := &ModelPoisson{}
		if mp.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		mp.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processPoissonInput(cmd, mp)
		if mp.Profile {
			defer profile.Start().Stop()
		}
		RunPoisson(ip)
	},
}

func processPoissonInput(cmd *cobra.Command, mp *ModelPoisson) (ip *InputParameters) {
	ip = &InputParameters{
		Title:           "Affine Patch Test",
		QuadratureOrder: 2,
		BoundarySlopeX:  1.,
		BoundarySlopeY:  2.,
	}
	ip.NX, _ = cmd.Flags().GetInt("nx")
	ip.NY, _ = cmd.Flags().GetInt("ny")
	ip.HangingNodeMesh, _ = cmd.Flags().GetBool("hanging")
	// the input parameters file overrides command line defaults
	if len(mp.ICFile) != 0 {
		var data []byte
		var err error
		if data, err = os.ReadFile(mp.ICFile); err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(poissonCmd)
	poissonCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- QuadratureOrder\n\t- Boundary data coefficients")
	poissonCmd.Flags().IntP("nx", "x", 4, "number of cells in x")
	poissonCmd.Flags().IntP("ny", "y", 4, "number of cells in y")
	poissonCmd.Flags().BoolP("hanging", "H", false, "use the hanging node example mesh instead of a Cartesian mesh")
	poissonCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the run")
}

func RunPoisson(ip *InputParameters) {
	ip.Print()
	var msh *Poisson2D.Mesh
	if ip.HangingNodeMesh {
		msh = Poisson2D.NewHangingNodeMesh()
	} else {
		msh = Poisson2D.NewCartesianMesh(ip.NX, ip.NY)
	}
	p := Poisson2D.NewPoisson(msh, ip.QuadratureOrder)

	exact := func(pt geometry2D.Point) float64 {
		return ip.BoundaryConstant + ip.BoundarySlopeX*pt.X[0] + ip.BoundarySlopeY*pt.X[1]
	}
	zero := func(pt geometry2D.Point) float64 { return 0. }

	u, err := p.Run(zero, exact)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	var maxErr float64
	for i, val := range u {
		if e := math.Abs(val - exact(msh.Verts[i])); e > maxErr {
			maxErr = e
		}
	}
	fmt.Printf("%d cells, %d vertices\n", msh.NCells(), msh.NVerts())
	fmt.Printf("max nodal error vs affine exact solution: %8.3e\n", maxErr)
}
